package pets

import "time"

// Stats son los valores de cuidado, siempre clampeados a [0,100].
type Stats struct {
	Hunger      int
	Happiness   int
	Energy      int
	Cleanliness int
}

// Get devuelve el valor del stat pedido.
func (s Stats) Get(k StatKind) int {
	switch k {
	case StatHunger:
		return s.Hunger
	case StatHappiness:
		return s.Happiness
	case StatEnergy:
		return s.Energy
	case StatCleanliness:
		return s.Cleanliness
	default:
		return 0
	}
}

// Set devuelve una copia con el stat pedido en v, clampeado a [0,100].
func (s Stats) Set(k StatKind, v int) Stats {
	v = Clamp(v)
	switch k {
	case StatHunger:
		s.Hunger = v
	case StatHappiness:
		s.Happiness = v
	case StatEnergy:
		s.Energy = v
	case StatCleanliness:
		s.Cleanliness = v
	}
	return s
}

func Clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// PersonalityTraits es el vector de personalidad, normalizado a suma 100.
type PersonalityTraits struct {
	Playful      int
	Calm         int
	Mischievous  int
	Affectionate int
}

// EvenTraits es el default sin historial de acciones.
func EvenTraits() PersonalityTraits {
	return PersonalityTraits{Playful: 25, Calm: 25, Mischievous: 25, Affectionate: 25}
}

// Pet es la mascota compartida de una pareja.
//
// Invariantes: stats en [0,100]; XP nunca decrece; Stage solo avanza
// (salvo reset externo). Version respalda el lock optimista del gateway:
// toda escritura pasa por un commit que compara y aumenta Version.
type Pet struct {
	ID       string
	CoupleID string

	Name    string
	Species Species
	Stage   Stage

	Stats  Stats
	Traits PersonalityTraits

	XP         int
	StreakDays int

	LastCareAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Version int
}
