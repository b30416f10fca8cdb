package pets

// Species define las especies soportadas.
// @Enum dog, cat, rabbit, hamster
type Species string

const (
	SpeciesDog     Species = "dog"
	SpeciesCat     Species = "cat"
	SpeciesRabbit  Species = "rabbit"
	SpeciesHamster Species = "hamster"
)

func ValidSpecies(s Species) bool {
	switch s {
	case SpeciesDog, SpeciesCat, SpeciesRabbit, SpeciesHamster:
		return true
	default:
		return false
	}
}

// Stage es la etapa de vida. La cadena egg→...→elder es estrictamente
// creciente; StageMilestone es un marcador paralelo para estados de
// celebración y no forma parte de la cadena.
type Stage string

const (
	StageEgg   Stage = "egg"
	StageBaby  Stage = "baby"
	StageChild Stage = "child"
	StageTeen  Stage = "teen"
	StageAdult Stage = "adult"
	StageElder Stage = "elder"

	StageMilestone Stage = "milestone"
)

var stageChain = []Stage{StageEgg, StageBaby, StageChild, StageTeen, StageAdult, StageElder}

// NextStage devuelve la etapa siguiente en la cadena.
// ok=false cuando la etapa es terminal (elder) o no pertenece a la cadena.
func NextStage(s Stage) (Stage, bool) {
	for i, st := range stageChain {
		if st == s && i+1 < len(stageChain) {
			return stageChain[i+1], true
		}
	}
	return s, false
}

// StageIndex devuelve la posición en la cadena (-1 si no pertenece).
func StageIndex(s Stage) int {
	for i, st := range stageChain {
		if st == s {
			return i
		}
	}
	return -1
}

// StatKind identifica cada stat acotado a [0,100].
type StatKind string

const (
	StatHunger      StatKind = "hunger"
	StatHappiness   StatKind = "happiness"
	StatEnergy      StatKind = "energy"
	StatCleanliness StatKind = "cleanliness"
)

// Trait identifica cada rasgo de personalidad.
type Trait string

const (
	TraitPlayful      Trait = "playful"
	TraitCalm         Trait = "calm"
	TraitMischievous  Trait = "mischievous"
	TraitAffectionate Trait = "affectionate"
)
