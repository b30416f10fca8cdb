package evolution

import (
	"context"

	"couple-pet-care/internal/domain/pets"
)

type Repository interface {
	ListByCouple(ctx context.Context, coupleID string) ([]Milestone, error)

	// CommitStage persiste el pet (con check optimista de versión) y los
	// milestones en una sola unidad atómica. Milestones ya existentes para
	// la pareja se omiten sin error (inserción idempotente).
	// Devuelve pets.ErrConflict si la versión del pet ya cambió.
	CommitStage(ctx context.Context, p pets.Pet, ms []Milestone) error
}
