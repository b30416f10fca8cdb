package minigames

import "time"

// GameType define los 4 mini-juegos configurados.
// @Enum memory_match, reflex_tap, rhythm_sync, puzzle_dash
type GameType string

const (
	GameMemoryMatch GameType = "memory_match"
	GameReflexTap   GameType = "reflex_tap"
	GameRhythmSync  GameType = "rhythm_sync"
	GamePuzzleDash  GameType = "puzzle_dash"
)

// GameConfig define la duración esperada y el techo de plausibilidad
// humana (acciones por segundo) de cada juego.
type GameConfig struct {
	Duration            time.Duration
	MaxActionsPerSecond int
}

var gameConfigs = map[GameType]GameConfig{
	GameMemoryMatch: {Duration: 60 * time.Second, MaxActionsPerSecond: 8},
	GameReflexTap:   {Duration: 30 * time.Second, MaxActionsPerSecond: 8},
	GameRhythmSync:  {Duration: 90 * time.Second, MaxActionsPerSecond: 8},
	GamePuzzleDash:  {Duration: 120 * time.Second, MaxActionsPerSecond: 8},
}

func ConfigFor(t GameType) (GameConfig, bool) {
	cfg, ok := gameConfigs[t]
	return cfg, ok
}

func ValidGameType(t GameType) bool {
	_, ok := gameConfigs[t]
	return ok
}

// Rank clasifica el score final en tiers.
type Rank string

const (
	RankPlatinum Rank = "platinum"
	RankGold     Rank = "gold"
	RankSilver   Rank = "silver"
	RankBronze   Rank = "bronze"
	RankNone     Rank = "none"
)
