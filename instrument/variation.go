package instrument

import "math"

// Variation maps a price quoted by one provider back to the catalog's
// native terms: Price(original) = original/Factor, rounded to AltTick by
// the ceil/floor helpers below. Grounded on original_source's
// InstrumentVariation (price/tickCeil/tickFloor built on roundAny).
type Variation struct {
	AltSymbol string
	Factor    float64
	AltTick   float64
}

// Price converts originalPrice from the foreign provider's terms.
func (v Variation) Price(originalPrice float64) float64 {
	return originalPrice / v.Factor
}

// TickCeil rounds Price(originalPrice) up to the nearest AltTick.
func (v Variation) TickCeil(originalPrice float64) float64 {
	return roundAny(v.Price(originalPrice), v.AltTick, math.Ceil)
}

// TickFloor rounds Price(originalPrice) down to the nearest AltTick.
func (v Variation) TickFloor(originalPrice float64) float64 {
	return roundAny(v.Price(originalPrice), v.AltTick, math.Floor)
}

func roundAny(x, accuracy float64, f func(float64) float64) float64 {
	return f(x/accuracy) * accuracy
}
