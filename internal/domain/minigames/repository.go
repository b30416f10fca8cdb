package minigames

import "context"

type Repository interface {
	Create(ctx context.Context, s Session) error
	GetByID(ctx context.Context, id string) (Session, error)
	ListByPet(ctx context.Context, petID string, limit int) ([]Session, error)

	// Seal congela la sesión completada. Falla si ya estaba sellada.
	Seal(ctx context.Context, s Session) error

	// MarkXPCredited registra que el XP de la sesión sellada ya se acreditó.
	MarkXPCredited(ctx context.Context, id string) error

	// Discard elimina una sesión implausible. No falla si no existe.
	Discard(ctx context.Context, id string) error
}
