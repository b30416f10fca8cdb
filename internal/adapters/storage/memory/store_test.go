package memory

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"couple-pet-care/internal/domain/care"
	"couple-pet-care/internal/domain/evolution"
	"couple-pet-care/internal/domain/minigames"
	"couple-pet-care/internal/domain/pets"
)

func seedPet(t *testing.T, s *Store) pets.Pet {
	t.Helper()

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	p := pets.Pet{
		ID:         "pet-1",
		CoupleID:   "c1",
		Name:       "Mochi",
		Species:    pets.SpeciesCat,
		Stage:      pets.StageEgg,
		Stats:      pets.Stats{Hunger: 80, Happiness: 80, Energy: 80, Cleanliness: 80},
		LastCareAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
		Version:    1,
	}
	if err := s.Pets().Create(context.Background(), p); err != nil {
		t.Fatalf("seed pet: %v", err)
	}
	return p
}

func TestStore_CommitCare_OptimisticVersion(t *testing.T) {
	s := NewStore()
	p := seedPet(t, s)
	ctx := context.Background()

	now := p.LastCareAt.Add(time.Minute)
	a := care.CareAction{ID: "a1", PetID: p.ID, UserID: "u1", Type: care.ActionFeed, PerformedAt: now, XPAwarded: 10}

	p.XP = 10
	if err := s.Care().CommitCare(ctx, p, a, nil); err != nil {
		t.Fatalf("CommitCare error: %v", err)
	}

	stored, err := s.Pets().GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if stored.Version != 2 || stored.XP != 10 {
		t.Fatalf("expected version 2 / XP 10, got %d / %d", stored.Version, stored.XP)
	}

	// Segundo commit con la versión vieja: pierde la carrera.
	err = s.Care().CommitCare(ctx, p, care.CareAction{ID: "a2", PetID: p.ID, UserID: "u2", Type: care.ActionPlay, PerformedAt: now}, nil)
	if !errors.Is(err, pets.ErrConflict) {
		t.Fatalf("expected pets.ErrConflict with stale version, got %v", err)
	}

	// El commit fallido no deja acción registrada.
	actions, _ := s.Care().ListByPet(ctx, p.ID, care.ListFilter{Limit: 50})
	if len(actions) != 1 {
		t.Fatalf("expected 1 action after failed commit, got %d", len(actions))
	}
}

func TestStore_Milestones_IdempotentInsert(t *testing.T) {
	s := NewStore()
	p := seedPet(t, s)
	ctx := context.Background()

	now := p.LastCareAt
	m := evolution.Milestone{ID: "m1", CoupleID: "c1", Type: evolution.MilestoneStageBaby, UnlockedStage: pets.StageBaby, AchievedAt: now}

	if err := s.Evolution().CommitStage(ctx, p, []evolution.Milestone{m}); err != nil {
		t.Fatalf("CommitStage error: %v", err)
	}

	// Mismo tipo otra vez (con versión fresca): no duplica.
	p2, _ := s.Pets().GetByID(ctx, p.ID)
	dup := m
	dup.ID = "m2"
	if err := s.Evolution().CommitStage(ctx, p2, []evolution.Milestone{dup}); err != nil {
		t.Fatalf("CommitStage #2 error: %v", err)
	}

	ms, err := s.Evolution().ListByCouple(ctx, "c1")
	if err != nil {
		t.Fatalf("ListByCouple error: %v", err)
	}
	if len(ms) != 1 {
		t.Fatalf("expected 1 milestone (idempotent), got %d", len(ms))
	}
	if ms[0].ID != "m1" {
		t.Fatalf("expected first insert to win, got %s", ms[0].ID)
	}
}

func TestStore_CareLog_FilterAndOrder(t *testing.T) {
	s := NewStore()
	p := seedPet(t, s)
	ctx := context.Background()

	base := p.LastCareAt
	types := []care.ActionType{care.ActionFeed, care.ActionPlay, care.ActionFeed}
	cur := p
	for i, at := range types {
		a := care.CareAction{
			ID: "a" + strconv.Itoa(i), PetID: p.ID, UserID: "u1",
			Type: at, PerformedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := s.Care().CommitCare(ctx, cur, a, nil); err != nil {
			t.Fatalf("CommitCare #%d: %v", i, err)
		}
		cur, _ = s.Pets().GetByID(ctx, p.ID)
	}

	// Más reciente primero.
	all, _ := s.Care().ListByPet(ctx, p.ID, care.ListFilter{Limit: 50})
	if len(all) != 3 || !all[0].PerformedAt.After(all[2].PerformedAt) {
		t.Fatalf("expected 3 actions newest-first, got %+v", all)
	}

	feeds, _ := s.Care().ListByPet(ctx, p.ID, care.ListFilter{Types: []care.ActionType{care.ActionFeed}, Limit: 50})
	if len(feeds) != 2 {
		t.Fatalf("expected 2 feed actions, got %d", len(feeds))
	}

	last, err := s.Care().LastActionAt(ctx, p.ID, care.ActionPlay)
	if err != nil || !last.Equal(base.Add(time.Hour)) {
		t.Fatalf("LastActionAt(play) = %v, %v", last, err)
	}

	if lastNever, _ := s.Care().LastActionAt(ctx, p.ID, care.ActionBath); !lastNever.IsZero() {
		t.Fatalf("expected zero time for an action never performed")
	}

	counts, _ := s.Care().CountByType(ctx, p.ID)
	if counts[care.ActionFeed] != 2 || counts[care.ActionPlay] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestStore_MiniGames_SealAndDiscard(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	sess := minigames.Session{ID: "s1", PetID: "pet-1", GameType: minigames.GameReflexTap, Participants: []string{"u1"}, StartedAt: now}

	if err := s.MiniGames().Create(ctx, sess); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	done := now.Add(25 * time.Second)
	sess.FinalScore = 110
	sess.Rank = minigames.RankSilver
	sess.CompletedAt = &done
	if err := s.MiniGames().Seal(ctx, sess); err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	// Doble seal: rechazado.
	if err := s.MiniGames().Seal(ctx, sess); !errors.Is(err, minigames.ErrSealed) {
		t.Fatalf("expected ErrSealed on double seal, got %v", err)
	}

	if err := s.MiniGames().MarkXPCredited(ctx, "s1"); err != nil {
		t.Fatalf("MarkXPCredited error: %v", err)
	}
	stored, _ := s.MiniGames().GetByID(ctx, "s1")
	if !stored.XPCredited {
		t.Fatalf("expected XPCredited after mark")
	}
	if err := s.MiniGames().MarkXPCredited(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound marking a missing session, got %v", err)
	}

	if err := s.MiniGames().Discard(ctx, "s1"); err != nil {
		t.Fatalf("Discard error: %v", err)
	}
	if _, err := s.MiniGames().GetByID(ctx, "s1"); err == nil {
		t.Fatalf("expected not found after discard")
	}

	// Discard de algo inexistente no falla.
	if err := s.MiniGames().Discard(ctx, "nope"); err != nil {
		t.Fatalf("Discard missing session must not fail: %v", err)
	}
}

func TestRateLimitStore_WindowReset(t *testing.T) {
	s := NewRateLimitStore()

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	ctx := context.Background()
	window := time.Minute

	for i := 1; i <= 3; i++ {
		count, _, err := s.Incr(ctx, "care:u1", window)
		if err != nil || count != i {
			t.Fatalf("Incr #%d = %d, %v", i, count, err)
		}
	}

	// Otra key cuenta aparte.
	if count, _, _ := s.Incr(ctx, "care:u2", window); count != 1 {
		t.Fatalf("expected independent counter per key, got %d", count)
	}

	// Pasada la ventana el contador arranca de nuevo.
	s.now = func() time.Time { return now.Add(window) }
	count, resetIn, err := s.Incr(ctx, "care:u1", window)
	if err != nil || count != 1 {
		t.Fatalf("expected window reset, got %d, %v", count, err)
	}
	if resetIn != window {
		t.Fatalf("expected resetIn = window after reset, got %s", resetIn)
	}
}
