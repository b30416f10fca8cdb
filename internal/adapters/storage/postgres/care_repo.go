package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"couple-pet-care/internal/domain/care"
	"couple-pet-care/internal/domain/evolution"
	"couple-pet-care/internal/domain/pets"
)

type CareRepo struct {
	db *sql.DB
}

func NewCareRepo(db *sql.DB) *CareRepo {
	return &CareRepo{db: db}
}

func (r *CareRepo) ListByPet(ctx context.Context, petID string, f care.ListFilter) ([]care.CareAction, error) {
	query := `
		SELECT id, pet_id, user_id, action_type, performed_at, xp_awarded, coop_bonus
		FROM care_actions
		WHERE pet_id = $1
	`
	args := []any{petID}
	i := 2

	if len(f.Types) > 0 {
		placeholders := make([]string, 0, len(f.Types))
		for _, t := range f.Types {
			placeholders = append(placeholders, fmt.Sprintf("$%d", i))
			args = append(args, string(t))
			i++
		}
		query += " AND action_type IN (" + strings.Join(placeholders, ",") + ")"
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND performed_at >= $%d", i)
		args = append(args, *f.From)
		i++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND performed_at <= $%d", i)
		args = append(args, *f.To)
		i++
	}

	query += " ORDER BY performed_at DESC"

	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", i)
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]care.CareAction, 0)
	for rows.Next() {
		var a care.CareAction
		var t string
		if err := rows.Scan(&a.ID, &a.PetID, &a.UserID, &t, &a.PerformedAt, &a.XPAwarded, &a.CoopBonus); err != nil {
			return nil, err
		}
		a.Type = care.ActionType(t)
		out = append(out, a)
	}

	return out, rows.Err()
}

func (r *CareRepo) LastActionAt(ctx context.Context, petID string, t care.ActionType) (time.Time, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT performed_at
		FROM care_actions
		WHERE pet_id = $1 AND action_type = $2
		ORDER BY performed_at DESC
		LIMIT 1
	`, petID, string(t))

	var last time.Time
	if err := row.Scan(&last); err != nil {
		if err == sql.ErrNoRows {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	return last, nil
}

func (r *CareRepo) LatestByUser(ctx context.Context, petID, userID string) (care.CareAction, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, pet_id, user_id, action_type, performed_at, xp_awarded, coop_bonus
		FROM care_actions
		WHERE pet_id = $1 AND user_id = $2
		ORDER BY performed_at DESC
		LIMIT 1
	`, petID, userID)

	var a care.CareAction
	var t string
	if err := row.Scan(&a.ID, &a.PetID, &a.UserID, &t, &a.PerformedAt, &a.XPAwarded, &a.CoopBonus); err != nil {
		if err == sql.ErrNoRows {
			return care.CareAction{}, false, nil
		}
		return care.CareAction{}, false, err
	}
	a.Type = care.ActionType(t)
	return a, true, nil
}

func (r *CareRepo) CountByType(ctx context.Context, petID string) (map[care.ActionType]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT action_type, COUNT(*)
		FROM care_actions
		WHERE pet_id = $1
		GROUP BY action_type
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[care.ActionType]int)
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		counts[care.ActionType(t)] = n
	}

	return counts, rows.Err()
}

// CommitCare: pet actualizado + append del action + milestones nuevos en
// una sola transacción. El UPDATE con check de versión linealiza escritores
// concurrentes; 0 filas = pets.ErrConflict y rollback de todo.
func (r *CareRepo) CommitCare(ctx context.Context, p pets.Pet, a care.CareAction, ms []evolution.Milestone) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := updatePetTx(ctx, tx, p); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO care_actions (id, pet_id, user_id, action_type, performed_at, xp_awarded, coop_bonus)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		a.ID,
		a.PetID,
		a.UserID,
		string(a.Type),
		a.PerformedAt,
		a.XPAwarded,
		a.CoopBonus,
	); err != nil {
		return err
	}

	if err := insertMilestonesTx(ctx, tx, ms); err != nil {
		return err
	}

	return tx.Commit()
}
