package evolution

import "couple-pet-care/internal/domain/pets"

// Threshold es la puerta de entrada a una etapa: se exigen ambas
// condiciones (XP acumulado y días de racha consecutivos).
type Threshold struct {
	XP         int
	StreakDays int
}

// DefaultThresholds define cuánto cuesta entrar a cada etapa.
var DefaultThresholds = map[pets.Stage]Threshold{
	pets.StageBaby:  {XP: 100, StreakDays: 3},
	pets.StageChild: {XP: 500, StreakDays: 14},
	pets.StageTeen:  {XP: 1500, StreakDays: 30},
	pets.StageAdult: {XP: 3500, StreakDays: 60},
	pets.StageElder: {XP: 7000, StreakDays: 100},
}

// Event se emite en cada transición exitosa.
type Event struct {
	Previous pets.Stage
	Next     pets.Stage
}

// Engine es la máquina de estados sobre las etapas de vida.
// Avanza como máximo una etapa por evaluación, aunque el XP alcance para
// varias; re-evaluar sin condiciones suficientes es un no-op.
type Engine struct {
	thresholds map[pets.Stage]Threshold
}

func NewEngine() *Engine {
	return &Engine{thresholds: DefaultThresholds}
}

// Evaluate decide si el pet puede avanzar a la etapa siguiente.
// Pura: no muta nada, el caller persiste la transición.
func (e *Engine) Evaluate(stage pets.Stage, xp, streakDays int) (Event, bool) {
	next, ok := pets.NextStage(stage)
	if !ok {
		return Event{}, false
	}

	th, ok := e.thresholds[next]
	if !ok {
		return Event{}, false
	}

	if xp < th.XP || streakDays < th.StreakDays {
		return Event{}, false
	}

	return Event{Previous: stage, Next: next}, true
}
