package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name    string
	Species string
}

// Create registra la mascota de la pareja: stage egg, stats al máximo,
// personalidad pareja y sin XP ni streak.
func (s *Service) Create(ctx context.Context, coupleID string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(coupleID) == "" {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, ErrInvalidInput
	}

	sp := Species(strings.TrimSpace(in.Species))
	if !ValidSpecies(sp) {
		return Pet{}, ErrInvalidInput
	}

	now := s.now()
	p := Pet{
		ID:       uuid.NewString(),
		CoupleID: coupleID,
		Name:     strings.TrimSpace(in.Name),
		Species:  sp,
		Stage:    StageEgg,
		Stats: Stats{
			Hunger:      100,
			Happiness:   100,
			Energy:      100,
			Cleanliness: 100,
		},
		Traits:     EvenTraits(),
		XP:         0,
		StreakDays: 0,
		LastCareAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
		Version:    1,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, ErrInvalidInput
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (s *Service) ListByCouple(ctx context.Context, coupleID string) ([]Pet, error) {
	coupleID = strings.TrimSpace(coupleID)
	if coupleID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByCouple(ctx, coupleID)
}

// Snapshot devuelve al pet con los stats decaídos al momento now.
// Solo lectura: la persistencia no se toca.
func (s *Service) Snapshot(ctx context.Context, id string) (Pet, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	p.Stats = DecayedStats(p.Stats, p.LastCareAt, s.now())
	return p, nil
}
