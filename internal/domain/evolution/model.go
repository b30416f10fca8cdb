package evolution

import (
	"time"

	"couple-pet-care/internal/domain/pets"
)

// MilestoneType identifica logros de pareja. Cada tipo se inserta una sola
// vez por pareja (insert idempotente en el adapter).
type MilestoneType string

const (
	MilestoneStageBaby  MilestoneType = "stage_baby"
	MilestoneStageChild MilestoneType = "stage_child"
	MilestoneStageTeen  MilestoneType = "stage_teen"
	MilestoneStageAdult MilestoneType = "stage_adult"
	MilestoneStageElder MilestoneType = "stage_elder"

	MilestoneStreak7   MilestoneType = "streak_7"
	MilestoneStreak30  MilestoneType = "streak_30"
	MilestoneStreak100 MilestoneType = "streak_100"
)

// Milestone es el registro de un logro alcanzado por la pareja.
type Milestone struct {
	ID       string
	CoupleID string

	Type MilestoneType

	// Etapa desbloqueada cuando el milestone viene de una evolución;
	// vacía para milestones de streak.
	UnlockedStage pets.Stage

	AchievedAt time.Time
}

// MilestoneForStage mapea la etapa alcanzada a su tipo de milestone.
func MilestoneForStage(s pets.Stage) (MilestoneType, bool) {
	switch s {
	case pets.StageBaby:
		return MilestoneStageBaby, true
	case pets.StageChild:
		return MilestoneStageChild, true
	case pets.StageTeen:
		return MilestoneStageTeen, true
	case pets.StageAdult:
		return MilestoneStageAdult, true
	case pets.StageElder:
		return MilestoneStageElder, true
	default:
		return "", false
	}
}

// MilestoneForStreak devuelve el milestone de racha si days coincide
// exactamente con un umbral (se evalúa justo al incrementar la racha).
func MilestoneForStreak(days int) (MilestoneType, bool) {
	switch days {
	case 7:
		return MilestoneStreak7, true
	case 30:
		return MilestoneStreak30, true
	case 100:
		return MilestoneStreak100, true
	default:
		return "", false
	}
}
