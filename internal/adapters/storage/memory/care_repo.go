package memory

import (
	"context"
	"sort"
	"time"

	"couple-pet-care/internal/domain/care"
	"couple-pet-care/internal/domain/evolution"
	"couple-pet-care/internal/domain/pets"
)

type careRepo struct {
	s *Store
}

func (r *careRepo) ListByPet(ctx context.Context, petID string, f care.ListFilter) ([]care.CareAction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]care.CareAction, 0)
	for _, a := range r.s.actions[petID] {
		if !matchesFilter(a, f) {
			continue
		}
		out = append(out, a)
	}

	// Más recientes primero (es un log de auditoría)
	sort.Slice(out, func(i, j int) bool {
		return out[i].PerformedAt.After(out[j].PerformedAt)
	})

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}

	return out, nil
}

func matchesFilter(a care.CareAction, f care.ListFilter) bool {
	if len(f.Types) > 0 {
		found := false
		for _, t := range f.Types {
			if a.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.From != nil && a.PerformedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && a.PerformedAt.After(*f.To) {
		return false
	}
	return true
}

func (r *careRepo) LastActionAt(ctx context.Context, petID string, t care.ActionType) (time.Time, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var last time.Time
	for _, a := range r.s.actions[petID] {
		if a.Type == t && a.PerformedAt.After(last) {
			last = a.PerformedAt
		}
	}
	return last, nil
}

func (r *careRepo) LatestByUser(ctx context.Context, petID, userID string) (care.CareAction, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var latest care.CareAction
	found := false
	for _, a := range r.s.actions[petID] {
		if a.UserID != userID {
			continue
		}
		if !found || a.PerformedAt.After(latest.PerformedAt) {
			latest = a
			found = true
		}
	}
	return latest, found, nil
}

func (r *careRepo) CountByType(ctx context.Context, petID string) (map[care.ActionType]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[care.ActionType]int)
	for _, a := range r.s.actions[petID] {
		counts[a.Type]++
	}
	return counts, nil
}

// CommitCare: pet (check de versión) + append del action + milestones,
// todo bajo el mismo lock. Si la versión no calza, nada se toca.
func (r *careRepo) CommitCare(ctx context.Context, p pets.Pet, a care.CareAction, ms []evolution.Milestone) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.commitPetLocked(p); err != nil {
		return err
	}

	r.s.actions[a.PetID] = append(r.s.actions[a.PetID], a)
	r.s.insertMilestonesLocked(ms)

	return nil
}
