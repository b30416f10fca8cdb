package memory

import (
	"context"
	"strings"

	"couple-pet-care/internal/domain/couples"
)

type couplesRepo struct {
	s *Store
}

func (r *couplesRepo) Create(ctx context.Context, c couples.Couple) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return ErrNotFound
	}
	if _, exists := r.s.couples[c.ID]; exists {
		return ErrAlreadyExists
	}
	r.s.couples[c.ID] = c
	return nil
}

func (r *couplesRepo) GetByID(ctx context.Context, id string) (couples.Couple, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.couples[id]
	if !ok {
		return couples.Couple{}, ErrNotFound
	}
	return c, nil
}

func (r *couplesRepo) GetByMember(ctx context.Context, userID string) (couples.Couple, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.couples {
		if c.HasMember(userID) {
			return c, nil
		}
	}
	return couples.Couple{}, ErrNotFound
}
