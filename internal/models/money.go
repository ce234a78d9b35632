package models

import "math"

// Cents is a monetary amount in minor units. All arithmetic inside the
// service happens on Cents; decimal floats exist only at the API edge.
type Cents int64

// CentsFromDecimal converts a decimal amount (e.g. 12.345) to minor
// units with two-decimal rounding, the rounding applied on every write.
func CentsFromDecimal(v float64) Cents {
	return Cents(math.Round(v * 100))
}

// Decimal returns the amount as a two-decimal float for serialization.
func (c Cents) Decimal() float64 {
	return float64(c) / 100
}
