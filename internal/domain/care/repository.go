package care

import (
	"context"
	"time"

	"couple-pet-care/internal/domain/evolution"
	"couple-pet-care/internal/domain/pets"
)

type Repository interface {
	ListByPet(ctx context.Context, petID string, f ListFilter) ([]CareAction, error)

	// LastActionAt devuelve el timestamp de la última acción aceptada del
	// tipo dado sobre el pet; zero time si nunca ocurrió.
	LastActionAt(ctx context.Context, petID string, t ActionType) (time.Time, error)

	// LatestByUser devuelve la última acción del usuario sobre el pet.
	// ok=false si el usuario nunca actuó.
	LatestByUser(ctx context.Context, petID, userID string) (CareAction, bool, error)

	// CountByType devuelve el multiset histórico de acciones del pet,
	// insumo del PersonalityAggregator.
	CountByType(ctx context.Context, petID string) (map[ActionType]int, error)

	// CommitCare persiste en una sola unidad atómica: el pet actualizado
	// (stats/XP/racha/etapa, con check optimista de versión), el append del
	// CareAction y los milestones nuevos (inserción idempotente por pareja
	// y tipo). Todo o nada; pets.ErrConflict si se perdió la carrera.
	CommitCare(ctx context.Context, p pets.Pet, a CareAction, ms []evolution.Milestone) error
}
