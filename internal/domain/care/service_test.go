package care

import (
	"context"
	"errors"
	"testing"
	"time"

	"couple-pet-care/internal/domain/couples"
	"couple-pet-care/internal/domain/evolution"
	"couple-pet-care/internal/domain/pets"
	"couple-pet-care/internal/ports/notify"
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

type testCareRepo struct {
	pets       *testPetsRepo
	actions    []CareAction
	milestones map[string]evolution.Milestone

	// fuerza un error de commit (para simular carreras de versión)
	commitErr error
}

func newTestCareRepo(p *testPetsRepo) *testCareRepo {
	return &testCareRepo{pets: p, milestones: map[string]evolution.Milestone{}}
}

func (r *testCareRepo) ListByPet(ctx context.Context, petID string, f ListFilter) ([]CareAction, error) {
	out := make([]CareAction, 0)
	for _, a := range r.actions {
		if a.PetID == petID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *testCareRepo) LastActionAt(ctx context.Context, petID string, t ActionType) (time.Time, error) {
	var last time.Time
	for _, a := range r.actions {
		if a.PetID == petID && a.Type == t && a.PerformedAt.After(last) {
			last = a.PerformedAt
		}
	}
	return last, nil
}

func (r *testCareRepo) LatestByUser(ctx context.Context, petID, userID string) (CareAction, bool, error) {
	var latest CareAction
	found := false
	for _, a := range r.actions {
		if a.PetID != petID || a.UserID != userID {
			continue
		}
		if !found || a.PerformedAt.After(latest.PerformedAt) {
			latest = a
			found = true
		}
	}
	return latest, found, nil
}

func (r *testCareRepo) CountByType(ctx context.Context, petID string) (map[ActionType]int, error) {
	counts := map[ActionType]int{}
	for _, a := range r.actions {
		if a.PetID == petID {
			counts[a.Type]++
		}
	}
	return counts, nil
}

func (r *testCareRepo) CommitCare(ctx context.Context, p pets.Pet, a CareAction, ms []evolution.Milestone) error {
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
	r.actions = append(r.actions, a)
	for _, m := range ms {
		key := m.CoupleID + "/" + string(m.Type)
		if _, exists := r.milestones[key]; !exists {
			r.milestones[key] = m
		}
	}
	return nil
}

// -------------------------
// Fixtures
// -------------------------

func newTestService(t *testing.T) (*Service, *testPetsRepo, *testCouplesRepo, *testCareRepo) {
	t.Helper()

	petsRepo := &testPetsRepo{byID: map[string]pets.Pet{}}
	couplesRepo := &testCouplesRepo{byID: map[string]couples.Couple{}}
	careRepo := newTestCareRepo(petsRepo)

	svc := NewService(pets.NewService(petsRepo), couples.NewService(couplesRepo), careRepo, nil, nil)
	return svc, petsRepo, couplesRepo, careRepo
}

func seedCoupleAndPet(petsRepo *testPetsRepo, couplesRepo *testCouplesRepo, now time.Time, mutate func(*pets.Pet)) (couples.Couple, pets.Pet) {
	c := couples.Couple{ID: "c1", UserAID: "u1", UserBID: "u2", CreatedAt: now}
	couplesRepo.byID[c.ID] = c

	p := pets.Pet{
		ID:         "pet-1",
		CoupleID:   c.ID,
		Name:       "Mochi",
		Species:    pets.SpeciesCat,
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
	return c, p
}

// -------------------------
// Tests
// -------------------------

func TestService_Perform_FeedWithUrgentBonus(t *testing.T) {
	svc, petsRepo, couplesRepo, careRepo := newTestService(t)

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	seedCoupleAndPet(petsRepo, couplesRepo, now, func(p *pets.Pet) {
		p.Stats.Hunger = 20
	})

	res, err := svc.Perform(context.Background(), "pet-1", "u1", ActionFeed)
	if err != nil {
		t.Fatalf("Perform error: %v", err)
	}
	if res.XPAwarded != 15 {
		t.Fatalf("expected 15 XP (base 10 + urgente 5), got %d", res.XPAwarded)
	}
	if res.Pet.Stats.Hunger != 50 {
		t.Fatalf("expected hunger 50, got %d", res.Pet.Stats.Hunger)
	}
	if res.Pet.StreakDays != 1 {
		t.Fatalf("expected streak 1 on first care, got %d", res.Pet.StreakDays)
	}
	if res.Pet.Version != 2 {
		t.Fatalf("expected version 2 after commit, got %d", res.Pet.Version)
	}
	if len(careRepo.actions) != 1 {
		t.Fatalf("expected 1 logged action, got %d", len(careRepo.actions))
	}
	if careRepo.actions[0].Type != ActionFeed || careRepo.actions[0].UserID != "u1" {
		t.Fatalf("unexpected logged action: %+v", careRepo.actions[0])
	}
}

func TestService_Perform_SecondFeedHitsCooldown(t *testing.T) {
	svc, petsRepo, couplesRepo, careRepo := newTestService(t)

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	seedCoupleAndPet(petsRepo, couplesRepo, now, nil)

	if _, err := svc.Perform(context.Background(), "pet-1", "u1", ActionFeed); err != nil {
		t.Fatalf("Perform #1 error: %v", err)
	}
	afterFirst := petsRepo.byID["pet-1"]

	svc.now = func() time.Time { return now.Add(10 * time.Second) }
	_, err := svc.Perform(context.Background(), "pet-1", "u1", ActionFeed)

	var cdErr *CooldownError
	if !errors.As(err, &cdErr) {
		t.Fatalf("expected CooldownError, got %v", err)
	}
	if cdErr.RetryAfter != 4*time.Minute+50*time.Second {
		t.Fatalf("expected retry after 4m50s, got %s", cdErr.RetryAfter)
	}

	// cero mutación, cero registro
	if petsRepo.byID["pet-1"] != afterFirst {
		t.Fatalf("rejected action must not mutate the pet")
	}
	if len(careRepo.actions) != 1 {
		t.Fatalf("rejected action must not be logged, got %d actions", len(careRepo.actions))
	}
}

func TestService_Perform_RejectsNonMember(t *testing.T) {
	svc, petsRepo, couplesRepo, _ := newTestService(t)

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	seedCoupleAndPet(petsRepo, couplesRepo, now, nil)

	_, err := svc.Perform(context.Background(), "pet-1", "intruder", ActionFeed)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestService_Perform_InvalidAction(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Perform(context.Background(), "pet-1", "u1", ActionType("hug"))
	if !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
}

func TestService_Perform_DecaysBeforeRules(t *testing.T) {
	svc, petsRepo, couplesRepo, _ := newTestService(t)

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	// 24h sin cuidado: hunger decae 120 → clamp a 0 → bonus urgente aplica
	// aunque el valor persistido diga 100.
	seedCoupleAndPet(petsRepo, couplesRepo, now, func(p *pets.Pet) {
		p.Stats = pets.Stats{Hunger: 100, Happiness: 100, Energy: 100, Cleanliness: 100}
		p.LastCareAt = now.Add(-24 * time.Hour)
		p.StreakDays = 1
	})

	res, err := svc.Perform(context.Background(), "pet-1", "u1", ActionFeed)
	if err != nil {
		t.Fatalf("Perform error: %v", err)
	}
	if res.XPAwarded != 15 {
		t.Fatalf("expected urgent bonus over decayed hunger, got %d XP", res.XPAwarded)
	}
	if res.Pet.Stats.Hunger != 30 {
		t.Fatalf("expected hunger 30 (0 + 30), got %d", res.Pet.Stats.Hunger)
	}
	if res.Pet.Stats.Happiness != 28 {
		t.Fatalf("expected happiness decayed to 28, got %d", res.Pet.Stats.Happiness)
	}
}

func TestService_Perform_CoopBonusWithinWindow(t *testing.T) {
	svc, petsRepo, couplesRepo, careRepo := newTestService(t)

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	seedCoupleAndPet(petsRepo, couplesRepo, now, func(p *pets.Pet) {
		p.Stats.Happiness = 50
	})

	// El partner actuó hace 60s (dentro de la ventana de 90s).
	careRepo.actions = append(careRepo.actions, CareAction{
		ID: "a0", PetID: "pet-1", UserID: "u2", Type: ActionFeed,
		PerformedAt: now.Add(-60 * time.Second),
	})

	res, err := svc.Perform(context.Background(), "pet-1", "u1", ActionPlay)
	if err != nil {
		t.Fatalf("Perform error: %v", err)
	}
	if !res.Action.CoopBonus {
		t.Fatalf("expected coop bonus flagged on the action")
	}
	// play: +25 × 1.25 = 31 → 81
	if res.Pet.Stats.Happiness != 81 {
		t.Fatalf("expected happiness 81 with coop, got %d", res.Pet.Stats.Happiness)
	}
}

func TestService_Perform_NoCoopOutsideWindow(t *testing.T) {
	svc, petsRepo, couplesRepo, careRepo := newTestService(t)

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	seedCoupleAndPet(petsRepo, couplesRepo, now, nil)

	careRepo.actions = append(careRepo.actions, CareAction{
		ID: "a0", PetID: "pet-1", UserID: "u2", Type: ActionFeed,
		PerformedAt: now.Add(-5 * time.Minute),
	})

	res, err := svc.Perform(context.Background(), "pet-1", "u1", ActionPlay)
	if err != nil {
		t.Fatalf("Perform error: %v", err)
	}
	if res.Action.CoopBonus {
		t.Fatalf("partner action 5m ago must not trigger coop bonus")
	}
}

func TestService_Perform_VersionConflictSurfaces(t *testing.T) {
	svc, petsRepo, couplesRepo, careRepo := newTestService(t)

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	seedCoupleAndPet(petsRepo, couplesRepo, now, nil)
	careRepo.commitErr = pets.ErrConflict

	_, err := svc.Perform(context.Background(), "pet-1", "u1", ActionFeed)
	if !errors.Is(err, pets.ErrConflict) {
		t.Fatalf("expected pets.ErrConflict, got %v", err)
	}
	if len(careRepo.actions) != 0 {
		t.Fatalf("failed commit must not leave a logged action")
	}
}

func TestService_Perform_StreakMilestone(t *testing.T) {
	svc, petsRepo, couplesRepo, careRepo := newTestService(t)

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	// Racha 6, último cuidado ayer: hoy pasa a 7 y dispara streak_7.
	seedCoupleAndPet(petsRepo, couplesRepo, now, func(p *pets.Pet) {
		p.StreakDays = 6
		p.LastCareAt = now.Add(-24 * time.Hour)
	})

	res, err := svc.Perform(context.Background(), "pet-1", "u1", ActionPet)
	if err != nil {
		t.Fatalf("Perform error: %v", err)
	}
	if res.Pet.StreakDays != 7 {
		t.Fatalf("expected streak 7, got %d", res.Pet.StreakDays)
	}
	if _, ok := careRepo.milestones["c1/"+string(evolution.MilestoneStreak7)]; !ok {
		t.Fatalf("expected streak_7 milestone, got %v", careRepo.milestones)
	}
}

func TestService_Perform_EvolvesWhenThresholdsMet(t *testing.T) {
	svc, petsRepo, couplesRepo, careRepo := newTestService(t)

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	// egg con 95 XP y racha 3 del mismo día: el feed lo empuja sobre 100.
	seedCoupleAndPet(petsRepo, couplesRepo, now, func(p *pets.Pet) {
		p.XP = 95
		p.StreakDays = 3
		p.LastCareAt = now.Add(-time.Hour)
	})

	res, err := svc.Perform(context.Background(), "pet-1", "u1", ActionFeed)
	if err != nil {
		t.Fatalf("Perform error: %v", err)
	}
	if !res.Evolved {
		t.Fatalf("expected evolution to baby")
	}
	if res.PreviousStage != pets.StageEgg || res.Pet.Stage != pets.StageBaby {
		t.Fatalf("expected egg→baby, got %s→%s", res.PreviousStage, res.Pet.Stage)
	}
	if _, ok := careRepo.milestones["c1/"+string(evolution.MilestoneStageBaby)]; !ok {
		t.Fatalf("expected stage_baby milestone")
	}
}

type failingNotifier struct{}

func (failingNotifier) CarePerformed(ctx context.Context, ev notify.CareEvent) error {
	return errors.New("messages service down")
}

func (failingNotifier) EvolutionReached(ctx context.Context, ev notify.EvolutionEvent) error {
	return errors.New("messages service down")
}

func TestService_Perform_NotifyFailureIsNotFatal(t *testing.T) {
	petsRepo := &testPetsRepo{byID: map[string]pets.Pet{}}
	couplesRepo := &testCouplesRepo{byID: map[string]couples.Couple{}}
	careRepo := newTestCareRepo(petsRepo)

	svc := NewService(pets.NewService(petsRepo), couples.NewService(couplesRepo), careRepo, failingNotifier{}, nil)

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	seedCoupleAndPet(petsRepo, couplesRepo, now, nil)

	res, err := svc.Perform(context.Background(), "pet-1", "u1", ActionFeed)
	if err != nil {
		t.Fatalf("notify failure must not fail the care action: %v", err)
	}
	if len(careRepo.actions) != 1 || res.XPAwarded == 0 {
		t.Fatalf("care must be committed despite notify failure")
	}
}

func TestService_History_RejectsNonMember(t *testing.T) {
	svc, petsRepo, couplesRepo, _ := newTestService(t)

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	seedCoupleAndPet(petsRepo, couplesRepo, now, nil)

	_, err := svc.History(context.Background(), "pet-1", "intruder", ListFilter{})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestNextStreak(t *testing.T) {
	base := time.Date(2026, 1, 10, 23, 30, 0, 0, time.UTC)

	// primer cuidado
	if got := nextStreak(time.Time{}, base, 0); got != 1 {
		t.Fatalf("first care: expected 1, got %d", got)
	}
	// mismo día calendario: sin cambio
	if got := nextStreak(base.Add(-2*time.Hour), base, 4); got != 4 {
		t.Fatalf("same day: expected 4, got %d", got)
	}
	// día siguiente: +1 (aunque cruce medianoche por poco)
	if got := nextStreak(base, base.Add(time.Hour), 4); got != 5 {
		t.Fatalf("next day: expected 5, got %d", got)
	}
	// hueco de 2 días: reset a 1
	if got := nextStreak(base, base.Add(49*time.Hour), 9); got != 1 {
		t.Fatalf("gap: expected reset to 1, got %d", got)
	}
}
