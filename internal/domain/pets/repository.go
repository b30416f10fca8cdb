package pets

import (
	"context"
	"errors"
)

// ErrConflict lo devuelven los adapters cuando un commit pierde la carrera
// de versión contra otra escritura concurrente sobre el mismo pet.
var ErrConflict = errors.New("pet version conflict")

type Repository interface {
	Create(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	ListByCouple(ctx context.Context, coupleID string) ([]Pet, error)
}
