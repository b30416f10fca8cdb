package memory

import (
	"context"
	"sort"
	"strings"

	"couple-pet-care/internal/domain/pets"
)

type petsRepo struct {
	s *Store
}

func (r *petsRepo) Create(ctx context.Context, p pets.Pet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return ErrNotFound
	}
	if _, exists := r.s.pets[p.ID]; exists {
		return ErrAlreadyExists
	}
	r.s.pets[p.ID] = p
	return nil
}

func (r *petsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.pets[id]
	if !ok {
		return pets.Pet{}, ErrNotFound
	}
	return p, nil
}

func (r *petsRepo) ListByCouple(ctx context.Context, coupleID string) ([]pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.s.pets {
		if p.CoupleID == coupleID {
			out = append(out, p)
		}
	}

	// Orden estable por created_at asc (consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}
