package postgres

import (
	"context"
	"database/sql"

	"couple-pet-care/internal/domain/evolution"
	"couple-pet-care/internal/domain/pets"
)

type MilestonesRepo struct {
	db *sql.DB
}

func NewMilestonesRepo(db *sql.DB) *MilestonesRepo {
	return &MilestonesRepo{db: db}
}

func (r *MilestonesRepo) ListByCouple(ctx context.Context, coupleID string) ([]evolution.Milestone, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, couple_id, milestone_type, unlocked_stage, achieved_at
		FROM milestones
		WHERE couple_id = $1
		ORDER BY achieved_at ASC
	`, coupleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]evolution.Milestone, 0)
	for rows.Next() {
		var m evolution.Milestone
		var mt string
		var stage sql.NullString
		if err := rows.Scan(&m.ID, &m.CoupleID, &mt, &stage, &m.AchievedAt); err != nil {
			return nil, err
		}
		m.Type = evolution.MilestoneType(mt)
		if stage.Valid {
			m.UnlockedStage = pets.Stage(stage.String)
		}
		out = append(out, m)
	}

	return out, rows.Err()
}

func (r *MilestonesRepo) CommitStage(ctx context.Context, p pets.Pet, ms []evolution.Milestone) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := updatePetTx(ctx, tx, p); err != nil {
		return err
	}

	if err := insertMilestonesTx(ctx, tx, ms); err != nil {
		return err
	}

	return tx.Commit()
}

// insertMilestonesTx inserta con ON CONFLICT DO NOTHING sobre el unique
// (couple_id, milestone_type): los retries nunca duplican celebraciones.
func insertMilestonesTx(ctx context.Context, tx *sql.Tx, ms []evolution.Milestone) error {
	for _, m := range ms {
		var stage sql.NullString
		if m.UnlockedStage != "" {
			stage = sql.NullString{String: string(m.UnlockedStage), Valid: true}
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO milestones (id, couple_id, milestone_type, unlocked_stage, achieved_at)
			VALUES ($1,$2,$3,$4,$5)
			ON CONFLICT (couple_id, milestone_type) DO NOTHING
		`,
			m.ID,
			m.CoupleID,
			string(m.Type),
			stage,
			m.AchievedAt,
		); err != nil {
			return err
		}
	}
	return nil
}
