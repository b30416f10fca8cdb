package notify

import "context"

// CareEvent describe una acción de cuidado ya confirmada (post-commit).
type CareEvent struct {
	PetID       string
	CoupleID    string
	ActorUserID string
	ActionType  string
	XPAwarded   int
	CoopBonus   bool
}

// EvolutionEvent describe una transición de etapa ya confirmada.
type EvolutionEvent struct {
	PetID         string
	CoupleID      string
	PreviousStage string
	NewStage      string
	MilestoneType string
}

// Notifier dispara la generación de mensajes/celebraciones.
// Es best-effort: un error aquí nunca debe revertir la transacción de cuidado.
type Notifier interface {
	CarePerformed(ctx context.Context, ev CareEvent) error
	EvolutionReached(ctx context.Context, ev EvolutionEvent) error
}

// Noop es el notifier por defecto cuando no hay servicio de mensajes configurado.
type Noop struct{}

func (Noop) CarePerformed(ctx context.Context, ev CareEvent) error         { return nil }
func (Noop) EvolutionReached(ctx context.Context, ev EvolutionEvent) error { return nil }
