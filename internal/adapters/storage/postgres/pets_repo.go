package postgres

import (
	"context"
	"database/sql"
	"strings"

	"couple-pet-care/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `
	id, couple_id, name, species, stage,
	hunger, happiness, energy, cleanliness,
	playful, calm, mischievous, affectionate,
	xp, streak_days, last_care_at,
	created_at, updated_at, version
`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (
			id, couple_id, name, species, stage,
			hunger, happiness, energy, cleanliness,
			playful, calm, mischievous, affectionate,
			xp, streak_days, last_care_at,
			created_at, updated_at, version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
	`,
		p.ID,
		p.CoupleID,
		p.Name,
		string(p.Species),
		string(p.Stage),
		p.Stats.Hunger,
		p.Stats.Happiness,
		p.Stats.Energy,
		p.Stats.Cleanliness,
		p.Traits.Playful,
		p.Traits.Calm,
		p.Traits.Mischievous,
		p.Traits.Affectionate,
		p.XP,
		p.StreakDays,
		p.LastCareAt,
		p.CreatedAt,
		p.UpdatedAt,
		p.Version,
	)
	return err
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE id = $1
	`, id)

	p, err := scanPet(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return pets.Pet{}, ErrNotFound
		}
		return pets.Pet{}, err
	}
	return p, nil
}

func (r *PetsRepo) ListByCouple(ctx context.Context, coupleID string) ([]pets.Pet, error) {
	coupleID = strings.TrimSpace(coupleID)
	if coupleID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE couple_id = $1
		ORDER BY created_at ASC
	`, coupleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (pets.Pet, error) {
	var p pets.Pet
	var species, stage string

	err := row.Scan(
		&p.ID,
		&p.CoupleID,
		&p.Name,
		&species,
		&stage,
		&p.Stats.Hunger,
		&p.Stats.Happiness,
		&p.Stats.Energy,
		&p.Stats.Cleanliness,
		&p.Traits.Playful,
		&p.Traits.Calm,
		&p.Traits.Mischievous,
		&p.Traits.Affectionate,
		&p.XP,
		&p.StreakDays,
		&p.LastCareAt,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.Version,
	)
	if err != nil {
		return pets.Pet{}, err
	}

	p.Species = pets.Species(species)
	p.Stage = pets.Stage(stage)
	return p, nil
}

// updatePetTx corre el UPDATE con check optimista dentro de la transacción
// del commit. 0 filas afectadas = la versión ya cambió.
func updatePetTx(ctx context.Context, tx *sql.Tx, p pets.Pet) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE pets
		SET
			stage = $2,
			hunger = $3,
			happiness = $4,
			energy = $5,
			cleanliness = $6,
			playful = $7,
			calm = $8,
			mischievous = $9,
			affectionate = $10,
			xp = $11,
			streak_days = $12,
			last_care_at = $13,
			updated_at = $14,
			version = version + 1
		WHERE id = $1 AND version = $15
	`,
		p.ID,
		string(p.Stage),
		p.Stats.Hunger,
		p.Stats.Happiness,
		p.Stats.Energy,
		p.Stats.Cleanliness,
		p.Traits.Playful,
		p.Traits.Calm,
		p.Traits.Mischievous,
		p.Traits.Affectionate,
		p.XP,
		p.StreakDays,
		p.LastCareAt,
		p.UpdatedAt,
		p.Version,
	)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrConflict
	}
	return nil
}
