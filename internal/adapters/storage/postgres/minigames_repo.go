package postgres

import (
	"context"
	"database/sql"
	"errors"

	"couple-pet-care/internal/domain/minigames"
)

type MiniGamesRepo struct {
	db *sql.DB
}

func NewMiniGamesRepo(db *sql.DB) *MiniGamesRepo {
	return &MiniGamesRepo{db: db}
}

const sessionColumns = `id, pet_id, game_type, participant_a, participant_b, is_coop,
	raw_score, accuracy, final_score, rank, started_at, completed_at, xp_credited`

func (r *MiniGamesRepo) Create(ctx context.Context, s minigames.Session) error {
	var pa, pb sql.NullString
	if len(s.Participants) > 0 {
		pa = sql.NullString{String: s.Participants[0], Valid: true}
	}
	if len(s.Participants) > 1 {
		pb = sql.NullString{String: s.Participants[1], Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO minigame_sessions (`+sessionColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		s.ID,
		s.PetID,
		string(s.GameType),
		pa,
		pb,
		s.IsCoop,
		s.RawScore,
		s.Accuracy,
		s.FinalScore,
		string(s.Rank),
		s.StartedAt,
		s.CompletedAt,
		s.XPCredited,
	)
	return err
}

func (r *MiniGamesRepo) GetByID(ctx context.Context, id string) (minigames.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`
		FROM minigame_sessions
		WHERE id = $1
	`, id)

	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return minigames.Session{}, ErrNotFound
	}
	return s, err
}

func (r *MiniGamesRepo) ListByPet(ctx context.Context, petID string, limit int) ([]minigames.Session, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+sessionColumns+`
		FROM minigame_sessions
		WHERE pet_id = $1
		ORDER BY started_at DESC
		LIMIT $2
	`, petID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]minigames.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	return out, rows.Err()
}

// Seal congela el score. El guard completed_at IS NULL evita el doble
// sellado bajo concurrencia: la segunda llamada no afecta filas.
func (r *MiniGamesRepo) Seal(ctx context.Context, s minigames.Session) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE minigame_sessions
		SET raw_score = $2, accuracy = $3, final_score = $4, rank = $5, completed_at = $6
		WHERE id = $1 AND completed_at IS NULL
	`,
		s.ID,
		s.RawScore,
		s.Accuracy,
		s.FinalScore,
		string(s.Rank),
		s.CompletedAt,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return minigames.ErrSealed
	}
	return nil
}

func (r *MiniGamesRepo) MarkXPCredited(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE minigame_sessions
		SET xp_credited = TRUE
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MiniGamesRepo) Discard(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM minigame_sessions WHERE id = $1`, id)
	return err
}

func scanSession(row rowScanner) (minigames.Session, error) {
	var s minigames.Session
	var gt, rank string
	var pa, pb sql.NullString
	var completed sql.NullTime

	if err := row.Scan(
		&s.ID,
		&s.PetID,
		&gt,
		&pa,
		&pb,
		&s.IsCoop,
		&s.RawScore,
		&s.Accuracy,
		&s.FinalScore,
		&rank,
		&s.StartedAt,
		&completed,
		&s.XPCredited,
	); err != nil {
		return minigames.Session{}, err
	}

	s.GameType = minigames.GameType(gt)
	s.Rank = minigames.Rank(rank)
	if pa.Valid {
		s.Participants = append(s.Participants, pa.String)
	}
	if pb.Valid {
		s.Participants = append(s.Participants, pb.String)
	}
	if completed.Valid {
		t := completed.Time
		s.CompletedAt = &t
	}

	return s, nil
}
