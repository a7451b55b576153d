// Package money provides VAT split primitives shared by the pricing
// calculator and the financial rollup.
// This is part of the platform layer and contains no business logic.
package money

import "math"

// Split divides an amount into net, VAT and gross parts for the given rate.
// When includeVAT is true the amount is treated as VAT-inclusive (gross),
// otherwise as VAT-exclusive (net). Rate is a fraction, e.g. 0.06 for 6%.
// Results are unrounded so aggregation does not compound rounding error;
// callers round once at the display boundary with Round2.
func Split(amount, rate float64, includeVAT bool) (net, vat, gross float64) {
	if includeVAT {
		gross = amount
		net = amount / (1 + rate)
	} else {
		net = amount
		gross = amount * (1 + rate)
	}
	vat = gross - net
	return net, vat, gross
}

// Round2 rounds to two decimal places, the display precision for amounts.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
