package postgres

import (
	"context"
	"database/sql"
	"strings"

	"couple-pet-care/internal/domain/couples"
)

type CouplesRepo struct {
	db *sql.DB
}

func NewCouplesRepo(db *sql.DB) *CouplesRepo {
	return &CouplesRepo{db: db}
}

func (r *CouplesRepo) Create(ctx context.Context, c couples.Couple) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO couples (id, user_a_id, user_b_id, created_at)
		VALUES ($1,$2,$3,$4)
	`,
		c.ID,
		c.UserAID,
		c.UserBID,
		c.CreatedAt,
	)
	return err
}

func (r *CouplesRepo) GetByID(ctx context.Context, id string) (couples.Couple, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return couples.Couple{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_a_id, user_b_id, created_at
		FROM couples
		WHERE id = $1
	`, id)

	var c couples.Couple
	if err := row.Scan(&c.ID, &c.UserAID, &c.UserBID, &c.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return couples.Couple{}, ErrNotFound
		}
		return couples.Couple{}, err
	}
	return c, nil
}

func (r *CouplesRepo) GetByMember(ctx context.Context, userID string) (couples.Couple, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return couples.Couple{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_a_id, user_b_id, created_at
		FROM couples
		WHERE user_a_id = $1 OR user_b_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, userID)

	var c couples.Couple
	if err := row.Scan(&c.ID, &c.UserAID, &c.UserBID, &c.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return couples.Couple{}, ErrNotFound
		}
		return couples.Couple{}, err
	}
	return c, nil
}
