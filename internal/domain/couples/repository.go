package couples

import "context"

type Repository interface {
	Create(ctx context.Context, c Couple) error
	GetByID(ctx context.Context, id string) (Couple, error)
	GetByMember(ctx context.Context, userID string) (Couple, error)
}
