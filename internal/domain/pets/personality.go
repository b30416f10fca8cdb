package pets

// traitPriority define el desempate del rasgo dominante.
// El orden es fijo para que el resultado sea determinista.
var traitPriority = []Trait{TraitPlayful, TraitCalm, TraitMischievous, TraitAffectionate}

func (t PersonalityTraits) value(tr Trait) int {
	switch tr {
	case TraitPlayful:
		return t.Playful
	case TraitCalm:
		return t.Calm
	case TraitMischievous:
		return t.Mischievous
	case TraitAffectionate:
		return t.Affectionate
	default:
		return 0
	}
}

// Dominant devuelve el rasgo con mayor peso. Empates se resuelven por
// prioridad fija: playful > calm > mischievous > affectionate.
func Dominant(t PersonalityTraits) Trait {
	best := traitPriority[0]
	for _, tr := range traitPriority[1:] {
		if t.value(tr) > t.value(best) {
			best = tr
		}
	}
	return best
}
