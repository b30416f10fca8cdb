package memory

import (
	"context"
	"sort"

	"couple-pet-care/internal/domain/evolution"
	"couple-pet-care/internal/domain/pets"
)

type milestonesRepo struct {
	s *Store
}

func (r *milestonesRepo) ListByCouple(ctx context.Context, coupleID string) ([]evolution.Milestone, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]evolution.Milestone, 0)
	for _, m := range r.s.milestones {
		if m.CoupleID == coupleID {
			out = append(out, m)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].AchievedAt.Before(out[j].AchievedAt)
	})

	return out, nil
}

func (r *milestonesRepo) CommitStage(ctx context.Context, p pets.Pet, ms []evolution.Milestone) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.commitPetLocked(p); err != nil {
		return err
	}

	r.s.insertMilestonesLocked(ms)
	return nil
}
