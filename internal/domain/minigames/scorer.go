package minigames

import (
	"errors"
	"math"
	"time"
)

var ErrImplausible = errors.New("implausible result")

const (
	// Ventana de sincronización co-op: el partner debe haberse unido
	// dentro de este delta para que aplique el multiplicador.
	CoopSyncWindowMs = 2000

	CoopMultiplier = 1.5

	AccuracyHighThreshold = 90
	AccuracyMidThreshold  = 75
	AccuracyHighMult      = 1.2
	AccuracyMidMult       = 1.1

	// La duración reportada puede exceder la configurada hasta este factor
	// antes de considerarse implausible.
	DurationSlack = 1.2
)

// Score calcula el puntaje final: co-op primero, accuracy después,
// redondeado al entero más cercano. syncDeltaMs nil = sin partner.
func Score(baseScore, accuracy int, isCoop bool, syncDeltaMs *int) int {
	final := float64(baseScore)

	if isCoop && syncDeltaMs != nil && *syncDeltaMs >= 0 && *syncDeltaMs <= CoopSyncWindowMs {
		final *= CoopMultiplier
	}

	switch {
	case accuracy >= AccuracyHighThreshold:
		final *= AccuracyHighMult
	case accuracy >= AccuracyMidThreshold:
		final *= AccuracyMidMult
	}

	return int(math.Round(final))
}

// RankFor devuelve el tier más alto alcanzado por el score.
func RankFor(score int) Rank {
	switch {
	case score >= 200:
		return RankPlatinum
	case score >= 150:
		return RankGold
	case score >= 100:
		return RankSilver
	case score >= 50:
		return RankBronze
	default:
		return RankNone
	}
}

// Validate es el chequeo anti-implausibilidad: duración mayor al 120% de
// la configurada o más acciones de las humanamente posibles descartan la
// sesión entera (no se recorta, se rechaza).
func Validate(gameType GameType, duration time.Duration, actionCount int) error {
	cfg, ok := ConfigFor(gameType)
	if !ok {
		return ErrImplausible
	}

	if duration < 0 || actionCount < 0 {
		return ErrImplausible
	}

	maxDuration := time.Duration(float64(cfg.Duration) * DurationSlack)
	if duration > maxDuration {
		return ErrImplausible
	}

	maxActions := int(duration.Seconds()) * cfg.MaxActionsPerSecond
	if actionCount > maxActions {
		return ErrImplausible
	}

	return nil
}
