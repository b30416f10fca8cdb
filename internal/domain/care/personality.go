package care

import (
	"math"

	"couple-pet-care/internal/domain/pets"
)

// traitWeights define cuánto aporta cada tipo de acción a cada rasgo.
var traitWeights = map[ActionType]map[pets.Trait]float64{
	ActionFeed:  {pets.TraitAffectionate: 1},
	ActionPlay:  {pets.TraitPlayful: 2},
	ActionWalk:  {pets.TraitPlayful: 1, pets.TraitMischievous: 0.5},
	ActionPet:   {pets.TraitAffectionate: 2},
	ActionGroom: {pets.TraitCalm: 1, pets.TraitAffectionate: 1},
	ActionTrain: {pets.TraitCalm: 1.5, pets.TraitMischievous: 0.5},
	ActionSleep: {pets.TraitCalm: 2},
	ActionBath:  {pets.TraitCalm: 1, pets.TraitAffectionate: 0.5},
}

// RecomputeTraits deriva el vector de personalidad del multiset histórico
// de acciones. El resultado se normaliza a suma exactamente 100 (el rasgo
// mayor absorbe el resto del redondeo); sin historial devuelve 25/25/25/25.
func RecomputeTraits(counts map[ActionType]int) pets.PersonalityTraits {
	raw := map[pets.Trait]float64{}
	total := 0.0

	for _, t := range AllActionTypes {
		n := counts[t]
		if n <= 0 {
			continue
		}
		for tr, w := range traitWeights[t] {
			contrib := w * float64(n)
			raw[tr] += contrib
			total += contrib
		}
	}

	if total == 0 {
		return pets.EvenTraits()
	}

	order := []pets.Trait{pets.TraitPlayful, pets.TraitCalm, pets.TraitMischievous, pets.TraitAffectionate}

	norm := map[pets.Trait]int{}
	sum := 0
	for _, tr := range order {
		v := int(math.Round(raw[tr] / total * 100))
		norm[tr] = v
		sum += v
	}

	// Ajustar el residuo de redondeo sobre el rasgo de mayor peso crudo
	// (primero en prioridad ante empate) para que la suma dé 100 exacto.
	if sum != 100 {
		biggest := order[0]
		for _, tr := range order[1:] {
			if raw[tr] > raw[biggest] {
				biggest = tr
			}
		}
		norm[biggest] += 100 - sum
	}

	return pets.PersonalityTraits{
		Playful:      norm[pets.TraitPlayful],
		Calm:         norm[pets.TraitCalm],
		Mischievous:  norm[pets.TraitMischievous],
		Affectionate: norm[pets.TraitAffectionate],
	}
}
