package memory

import (
	"context"
	"sort"
	"strings"

	"couple-pet-care/internal/domain/minigames"
)

type minigamesRepo struct {
	s *Store
}

func (r *minigamesRepo) Create(ctx context.Context, sess minigames.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(sess.ID) == "" {
		return ErrNotFound
	}
	if _, exists := r.s.sessions[sess.ID]; exists {
		return ErrAlreadyExists
	}
	r.s.sessions[sess.ID] = sess
	return nil
}

func (r *minigamesRepo) GetByID(ctx context.Context, id string) (minigames.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sess, ok := r.s.sessions[id]
	if !ok {
		return minigames.Session{}, ErrNotFound
	}
	return sess, nil
}

func (r *minigamesRepo) ListByPet(ctx context.Context, petID string, limit int) ([]minigames.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]minigames.Session, 0)
	for _, sess := range r.s.sessions {
		if sess.PetID == petID {
			out = append(out, sess)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *minigamesRepo) Seal(ctx context.Context, sess minigames.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.sessions[sess.ID]
	if !ok {
		return ErrNotFound
	}
	if current.Sealed() {
		return minigames.ErrSealed
	}
	r.s.sessions[sess.ID] = sess
	return nil
}

func (r *minigamesRepo) MarkXPCredited(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sess, ok := r.s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	sess.XPCredited = true
	r.s.sessions[id] = sess
	return nil
}

func (r *minigamesRepo) Discard(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.sessions, id)
	return nil
}
