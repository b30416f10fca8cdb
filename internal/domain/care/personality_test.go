package care

import (
	"testing"

	"couple-pet-care/internal/domain/pets"
)

func traitSum(t pets.PersonalityTraits) int {
	return t.Playful + t.Calm + t.Mischievous + t.Affectionate
}

func TestRecomputeTraits_EmptyHistoryIsEven(t *testing.T) {
	got := RecomputeTraits(nil)
	if got != pets.EvenTraits() {
		t.Fatalf("expected 25/25/25/25, got %+v", got)
	}

	got = RecomputeTraits(map[ActionType]int{})
	if got != pets.EvenTraits() {
		t.Fatalf("expected 25/25/25/25 with empty map, got %+v", got)
	}
}

func TestRecomputeTraits_SumsExactly100(t *testing.T) {
	cases := []map[ActionType]int{
		{ActionPlay: 1},
		{ActionFeed: 3, ActionPlay: 2, ActionSleep: 1},
		{ActionWalk: 7, ActionTrain: 5, ActionBath: 2, ActionPet: 11},
		{ActionGroom: 1, ActionTrain: 1, ActionWalk: 1},
	}
	for i, counts := range cases {
		got := RecomputeTraits(counts)
		if traitSum(got) != 100 {
			t.Fatalf("case %d: sum = %d, want exactly 100 (%+v)", i, traitSum(got), got)
		}
	}
}

func TestRecomputeTraits_PlayHeavyHistory(t *testing.T) {
	got := RecomputeTraits(map[ActionType]int{ActionPlay: 10, ActionFeed: 1})
	if pets.Dominant(got) != pets.TraitPlayful {
		t.Fatalf("expected playful dominant, got %+v", got)
	}
	if got.Playful <= got.Affectionate {
		t.Fatalf("playful must outweigh affectionate: %+v", got)
	}
}

func TestRecomputeTraits_SleepHeavyHistory(t *testing.T) {
	got := RecomputeTraits(map[ActionType]int{ActionSleep: 8, ActionPlay: 2})
	if pets.Dominant(got) != pets.TraitCalm {
		t.Fatalf("expected calm dominant, got %+v", got)
	}
}
