package pets

import (
	"math"
	"time"
)

// Tasas de decaimiento en puntos por hora.
const (
	DecayRateHunger      = 5.0
	DecayRateHappiness   = 3.0
	DecayRateEnergy      = 4.0
	DecayRateCleanliness = 2.0
)

func decayRate(k StatKind) float64 {
	switch k {
	case StatHunger:
		return DecayRateHunger
	case StatHappiness:
		return DecayRateHappiness
	case StatEnergy:
		return DecayRateEnergy
	case StatCleanliness:
		return DecayRateCleanliness
	default:
		return 0
	}
}

// Decay calcula cuántos puntos perdió el stat desde el último cuidado.
// Pura y determinista. Redondea al entero más cercano, nunca excede el
// valor actual y tolera clock skew (now < lastCare devuelve 0).
func Decay(k StatKind, lastCare time.Time, current int, now time.Time) int {
	if current <= 0 {
		return 0
	}
	if lastCare.IsZero() || !now.After(lastCare) {
		return 0
	}

	hours := now.Sub(lastCare).Hours()
	amount := int(math.Round(hours * decayRate(k)))

	if amount > current {
		return current
	}
	if amount < 0 {
		return 0
	}
	return amount
}

// DecayedStats aplica Decay a todos los stats y devuelve el snapshot
// resultante. No muta al pet: el valor persistido solo cambia vía gateway.
func DecayedStats(s Stats, lastCare time.Time, now time.Time) Stats {
	return Stats{
		Hunger:      s.Hunger - Decay(StatHunger, lastCare, s.Hunger, now),
		Happiness:   s.Happiness - Decay(StatHappiness, lastCare, s.Happiness, now),
		Energy:      s.Energy - Decay(StatEnergy, lastCare, s.Energy, now),
		Cleanliness: s.Cleanliness - Decay(StatCleanliness, lastCare, s.Cleanliness, now),
	}
}
