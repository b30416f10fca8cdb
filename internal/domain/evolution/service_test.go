package evolution

import (
	"context"
	"errors"
	"testing"
	"time"

	"couple-pet-care/internal/domain/couples"
	"couple-pet-care/internal/domain/pets"
)

// -------------------------
// Test repos (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testPetsRepo struct {
	byID map[string]pets.Pet
}

func (r *testPetsRepo) Create(ctx context.Context, p pets.Pet) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testPetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, errRepoNotFound
	}
	return p, nil
}

func (r *testPetsRepo) ListByCouple(ctx context.Context, coupleID string) ([]pets.Pet, error) {
	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if p.CoupleID == coupleID {
			out = append(out, p)
		}
	}
	return out, nil
}

type testCouplesRepo struct {
	byID map[string]couples.Couple
}

func (r *testCouplesRepo) Create(ctx context.Context, c couples.Couple) error {
	r.byID[c.ID] = c
	return nil
}

func (r *testCouplesRepo) GetByID(ctx context.Context, id string) (couples.Couple, error) {
	c, ok := r.byID[id]
	if !ok {
		return couples.Couple{}, errRepoNotFound
	}
	return c, nil
}

func (r *testCouplesRepo) GetByMember(ctx context.Context, userID string) (couples.Couple, error) {
	for _, c := range r.byID {
		if c.HasMember(userID) {
			return c, nil
		}
	}
	return couples.Couple{}, errRepoNotFound
}

type testMilestonesRepo struct {
	pets  *testPetsRepo
	byKey map[string]Milestone

	commitErr error
	commits   int
}

func newTestMilestonesRepo(p *testPetsRepo) *testMilestonesRepo {
	return &testMilestonesRepo{pets: p, byKey: map[string]Milestone{}}
}

func (r *testMilestonesRepo) ListByCouple(ctx context.Context, coupleID string) ([]Milestone, error) {
	out := make([]Milestone, 0)
	for _, m := range r.byKey {
		if m.CoupleID == coupleID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *testMilestonesRepo) CommitStage(ctx context.Context, p pets.Pet, ms []Milestone) error {
	r.commits++
	if r.commitErr != nil {
		return r.commitErr
	}

	stored, ok := r.pets.byID[p.ID]
	if !ok {
		return errRepoNotFound
	}
	if stored.Version != p.Version {
		return pets.ErrConflict
	}

	p.Version++
	r.pets.byID[p.ID] = p
	for _, m := range ms {
		key := m.CoupleID + "/" + string(m.Type)
		if _, exists := r.byKey[key]; !exists {
			r.byKey[key] = m
		}
	}
	return nil
}

// -------------------------
// Fixtures
// -------------------------

func newTestService() (*Service, *testPetsRepo, *testCouplesRepo, *testMilestonesRepo) {
	petsRepo := &testPetsRepo{byID: map[string]pets.Pet{}}
	couplesRepo := &testCouplesRepo{byID: map[string]couples.Couple{}}
	msRepo := newTestMilestonesRepo(petsRepo)

	svc := NewService(pets.NewService(petsRepo), couples.NewService(couplesRepo), msRepo, nil, nil)
	return svc, petsRepo, couplesRepo, msRepo
}

func seedCoupleAndPet(petsRepo *testPetsRepo, couplesRepo *testCouplesRepo, now time.Time, mutate func(*pets.Pet)) {
	c := couples.Couple{ID: "c1", UserAID: "u1", UserBID: "u2", CreatedAt: now}
	couplesRepo.byID[c.ID] = c

	p := pets.Pet{
		ID:         "pet-1",
		CoupleID:   c.ID,
		Name:       "Mochi",
		Species:    pets.SpeciesDog,
		Stage:      pets.StageEgg,
		Stats:      pets.Stats{Hunger: 80, Happiness: 80, Energy: 80, Cleanliness: 80},
		Traits:     pets.EvenTraits(),
		LastCareAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
		Version:    1,
	}
	if mutate != nil {
		mutate(&p)
	}
	petsRepo.byID[p.ID] = p
}

// -------------------------
// Tests
// -------------------------

func TestService_Check_EvolvesOnceAndIsIdempotent(t *testing.T) {
	svc, petsRepo, couplesRepo, msRepo := newTestService()

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	seedCoupleAndPet(petsRepo, couplesRepo, now, func(p *pets.Pet) {
		p.XP = 100
		p.StreakDays = 3
	})

	res, err := svc.Check(context.Background(), "pet-1", "u1")
	if err != nil {
		t.Fatalf("Check error: %v", err)
	}
	if !res.HasEvolved || res.PreviousStage != pets.StageEgg || res.CurrentStage != pets.StageBaby {
		t.Fatalf("expected egg→baby, got %+v", res)
	}
	if _, ok := msRepo.byKey["c1/"+string(MilestoneStageBaby)]; !ok {
		t.Fatalf("expected stage_baby milestone")
	}

	// Re-check sin condiciones nuevas: no-op.
	res2, err := svc.Check(context.Background(), "pet-1", "u1")
	if err != nil {
		t.Fatalf("Check #2 error: %v", err)
	}
	if res2.HasEvolved {
		t.Fatalf("second check must be a no-op")
	}
	if res2.CurrentStage != pets.StageBaby {
		t.Fatalf("expected baby after idempotent re-check, got %s", res2.CurrentStage)
	}
}

func TestService_Check_NoEvolutionBelowThreshold(t *testing.T) {
	svc, petsRepo, couplesRepo, msRepo := newTestService()

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	seedCoupleAndPet(petsRepo, couplesRepo, now, func(p *pets.Pet) {
		p.XP = 99
		p.StreakDays = 3
	})

	res, err := svc.Check(context.Background(), "pet-1", "u1")
	if err != nil {
		t.Fatalf("Check error: %v", err)
	}
	if res.HasEvolved {
		t.Fatalf("expected no evolution at 99 XP")
	}
	if msRepo.commits != 0 {
		t.Fatalf("no-op check must not hit the repo")
	}
}

func TestService_Check_RejectsNonMember(t *testing.T) {
	svc, petsRepo, couplesRepo, _ := newTestService()

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	seedCoupleAndPet(petsRepo, couplesRepo, now, nil)

	_, err := svc.Check(context.Background(), "pet-1", "intruder")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestService_AwardXP_AccumulatesAndEvolves(t *testing.T) {
	svc, petsRepo, couplesRepo, _ := newTestService()

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	seedCoupleAndPet(petsRepo, couplesRepo, now, func(p *pets.Pet) {
		p.XP = 90
		p.StreakDays = 3
	})

	p, ev, err := svc.AwardXP(context.Background(), "pet-1", 18)
	if err != nil {
		t.Fatalf("AwardXP error: %v", err)
	}
	if p.XP != 108 {
		t.Fatalf("expected XP 108, got %d", p.XP)
	}
	if ev == nil || ev.Next != pets.StageBaby {
		t.Fatalf("expected evolution egg→baby, got %+v", ev)
	}
	if petsRepo.byID["pet-1"].XP != 108 {
		t.Fatalf("expected XP persisted")
	}
}

func TestService_AwardXP_RejectsNegative(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, _, err := svc.AwardXP(context.Background(), "pet-1", -1)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_AwardXP_ZeroStillCommits(t *testing.T) {
	// XP 0 (score bajo) sigue pasando por el commit: UpdatedAt avanza y el
	// lock optimista se ejercita igual.
	svc, petsRepo, couplesRepo, msRepo := newTestService()

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	seedCoupleAndPet(petsRepo, couplesRepo, now, nil)

	_, ev, err := svc.AwardXP(context.Background(), "pet-1", 0)
	if err != nil {
		t.Fatalf("AwardXP error: %v", err)
	}
	if ev != nil {
		t.Fatalf("expected no evolution")
	}
	if msRepo.commits != 1 {
		t.Fatalf("expected 1 commit, got %d", msRepo.commits)
	}
}

func TestService_ListMilestones_RejectsNonMember(t *testing.T) {
	svc, petsRepo, couplesRepo, _ := newTestService()

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	seedCoupleAndPet(petsRepo, couplesRepo, now, nil)

	_, err := svc.ListMilestones(context.Background(), "pet-1", "intruder")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
