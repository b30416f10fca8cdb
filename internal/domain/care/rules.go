package care

import (
	"errors"
	"math"
	"time"

	"couple-pet-care/internal/domain/pets"
)

var ErrInvalidAction = errors.New("invalid action type")

// Constantes de reglas de cuidado.
const (
	// Bonus por cuidado urgente, según el stat primario ANTES de aplicar
	// deltas: <25 → +50% del base, <50 → +25%.
	UrgentLowThreshold = 25
	UrgentMidThreshold = 50

	// Bonus de combo: streak×2 con tope 20, solo con racha ≥ 3 días.
	ComboMinStreak = 3
	ComboCapXP     = 20

	// Multiplicador de deltas positivos cuando ambos partners cuidaron
	// dentro de la ventana de sincronización.
	CoopStatMultiplier = 1.25
)

const ReasonCooldownActive = "COOLDOWN_ACTIVE"

type statDelta struct {
	Stat   pets.StatKind
	Amount int
}

// Cada acción es un brazo puro del match: stat primario primero,
// deltas firmados (los negativos son el costo de la acción).
func feedDeltas() []statDelta { return []statDelta{{pets.StatHunger, +30}} }
func playDeltas() []statDelta { return []statDelta{{pets.StatHappiness, +25}, {pets.StatEnergy, -10}} }
func walkDeltas() []statDelta {
	return []statDelta{{pets.StatHappiness, +15}, {pets.StatEnergy, -15}, {pets.StatHunger, -5}}
}
func petDeltas() []statDelta   { return []statDelta{{pets.StatHappiness, +10}} }
func groomDeltas() []statDelta { return []statDelta{{pets.StatCleanliness, +35}, {pets.StatHappiness, +5}} }
func trainDeltas() []statDelta { return []statDelta{{pets.StatEnergy, -20}, {pets.StatHappiness, +10}} }
func sleepDeltas() []statDelta { return []statDelta{{pets.StatEnergy, +50}} }
func bathDeltas() []statDelta  { return []statDelta{{pets.StatCleanliness, +45}} }

func actionDeltas(t ActionType) ([]statDelta, error) {
	switch t {
	case ActionFeed:
		return feedDeltas(), nil
	case ActionPlay:
		return playDeltas(), nil
	case ActionWalk:
		return walkDeltas(), nil
	case ActionPet:
		return petDeltas(), nil
	case ActionGroom:
		return groomDeltas(), nil
	case ActionTrain:
		return trainDeltas(), nil
	case ActionSleep:
		return sleepDeltas(), nil
	case ActionBath:
		return bathDeltas(), nil
	default:
		return nil, ErrInvalidAction
	}
}

// BaseXP por tipo de acción.
func BaseXP(t ActionType) (int, error) {
	switch t {
	case ActionFeed:
		return 10, nil
	case ActionPlay:
		return 15, nil
	case ActionWalk:
		return 20, nil
	case ActionPet:
		return 5, nil
	case ActionGroom:
		return 12, nil
	case ActionTrain:
		return 25, nil
	case ActionSleep:
		return 8, nil
	case ActionBath:
		return 15, nil
	default:
		return 0, ErrInvalidAction
	}
}

// Cooldown devuelve la ventana mínima entre dos acciones aceptadas del
// mismo tipo.
func Cooldown(t ActionType) (time.Duration, error) {
	switch t {
	case ActionFeed:
		return 5 * time.Minute, nil
	case ActionPlay:
		return 10 * time.Minute, nil
	case ActionWalk:
		return 30 * time.Minute, nil
	case ActionPet:
		return 2 * time.Minute, nil
	case ActionGroom:
		return time.Hour, nil
	case ActionTrain:
		return 30 * time.Minute, nil
	case ActionSleep:
		return 4 * time.Hour, nil
	case ActionBath:
		return 2 * time.Hour, nil
	default:
		return 0, ErrInvalidAction
	}
}

// PrimaryStat es el stat objetivo de la acción (el primero de sus deltas);
// define el bonus de cuidado urgente.
func PrimaryStat(t ActionType) (pets.StatKind, error) {
	ds, err := actionDeltas(t)
	if err != nil {
		return "", err
	}
	return ds[0].Stat, nil
}

// RulesInput es el estado que las reglas necesitan para decidir.
// Stats ya debe venir decaído por StatClock; el gateway es quien garantiza
// que nunca se usan stats enviados por el cliente.
type RulesInput struct {
	Action     ActionType
	Now        time.Time
	Stats      pets.Stats
	StreakDays int

	// Timestamp de la última acción aceptada del mismo tipo; zero si nunca.
	LastSameAction time.Time

	// true cuando el partner actuó dentro de la ventana de sincronización.
	CoopBonus bool
}

type RulesResult struct {
	Accepted   bool
	Reason     string
	RetryAfter time.Duration

	NewStats  pets.Stats
	XPAwarded int
}

// Apply ejecuta CareRules: cooldown, deltas de stats clampeados a [0,100]
// y XP = base + bonus urgente + bonus de combo. Pura: ante rechazo el
// caller no debe mutar nada.
func Apply(in RulesInput) (RulesResult, error) {
	if !ValidActionType(in.Action) {
		return RulesResult{}, ErrInvalidAction
	}

	cd, err := Cooldown(in.Action)
	if err != nil {
		return RulesResult{}, err
	}

	if !in.LastSameAction.IsZero() {
		elapsed := in.Now.Sub(in.LastSameAction)
		if elapsed >= 0 && elapsed < cd {
			return RulesResult{
				Accepted:   false,
				Reason:     ReasonCooldownActive,
				RetryAfter: cd - elapsed,
				NewStats:   in.Stats,
			}, nil
		}
	}

	base, err := BaseXP(in.Action)
	if err != nil {
		return RulesResult{}, err
	}
	primary, err := PrimaryStat(in.Action)
	if err != nil {
		return RulesResult{}, err
	}
	deltas, err := actionDeltas(in.Action)
	if err != nil {
		return RulesResult{}, err
	}

	xp := base + urgentBonus(base, in.Stats.Get(primary)) + comboBonus(in.StreakDays)

	newStats := in.Stats
	for _, d := range deltas {
		amount := d.Amount
		if in.CoopBonus && amount > 0 {
			amount = int(math.Round(float64(amount) * CoopStatMultiplier))
		}
		newStats = newStats.Set(d.Stat, newStats.Get(d.Stat)+amount)
	}

	return RulesResult{
		Accepted:  true,
		NewStats:  newStats,
		XPAwarded: xp,
	}, nil
}

func urgentBonus(base, primaryValue int) int {
	switch {
	case primaryValue < UrgentLowThreshold:
		return base / 2
	case primaryValue < UrgentMidThreshold:
		return base / 4
	default:
		return 0
	}
}

func comboBonus(streakDays int) int {
	if streakDays < ComboMinStreak {
		return 0
	}
	b := streakDays * 2
	if b > ComboCapXP {
		return ComboCapXP
	}
	return b
}
