package service

import (
	"fmt"

	"charterdesk_backend/internal/offers/transport"
	"charterdesk_backend/platform/apperr"
	"charterdesk_backend/platform/money"
)

// Rates are the operator's per-km and per-hour prices. They are configured
// defaults, never hardcoded business constants.
type Rates struct {
	Km      float64
	Day     float64
	Evening float64
	Weekend float64
}

// VATRates carries the configured VAT rates. Domestic legs use the domestic
// rate, international legs the international rate (typically zero).
type VATRates struct {
	Domestic      float64
	International float64
}

// resolveRates applies per-request overrides on top of the operator defaults.
func resolveRates(defaults Rates, override *transport.RatesInput) Rates {
	rates := defaults
	if override == nil {
		return rates
	}
	if override.KmRate != nil {
		rates.Km = *override.KmRate
	}
	if override.DayRate != nil {
		rates.Day = *override.DayRate
	}
	if override.EveningRate != nil {
		rates.Evening = *override.EveningRate
	}
	if override.WeekendRate != nil {
		rates.Weekend = *override.WeekendRate
	}
	return rates
}

func validateLeg(i int, leg transport.QuoteLegInput) error {
	check := func(name string, v float64) error {
		if v < 0 {
			return apperr.Validation(fmt.Sprintf("leg %d: %s cannot be negative", i+1, name))
		}
		return nil
	}
	for name, v := range map[string]float64{
		"km":           leg.Km,
		"hoursDay":     leg.HoursDay,
		"hoursEvening": leg.HoursEvening,
		"hoursWeekend": leg.HoursWeekend,
		"discount":     leg.Discount,
	} {
		if err := check(name, v); err != nil {
			return err
		}
	}
	return nil
}

// CalculateLegSubtotal computes one leg's ex-VAT subtotal from distance and
// time-band inputs. The discount is a flat currency amount; the result
// clamps at zero, never negative.
func CalculateLegSubtotal(leg transport.QuoteLegInput, rates Rates) float64 {
	subtotal := leg.Km*rates.Km +
		leg.HoursDay*rates.Day +
		leg.HoursEvening*rates.Evening +
		leg.HoursWeekend*rates.Weekend -
		leg.Discount
	if subtotal < 0 {
		return 0
	}
	return subtotal
}

func legVATRate(leg transport.QuoteLegInput, vat VATRates) float64 {
	if leg.IsDomestic {
		return vat.Domestic
	}
	return vat.International
}

// CalculateQuote combines 1-2 legs plus a flat service fee into a full
// breakdown. Per-leg VAT and totals are rounded for display; grand totals
// are summed from unrounded values and rounded once at the boundary so
// rounding error does not compound.
func CalculateQuote(req transport.QuoteRequest, defaults Rates, vat VATRates) (*transport.QuoteBreakdown, error) {
	if len(req.Legs) < 1 || len(req.Legs) > 2 {
		return nil, apperr.Validation("a quote needs one or two legs")
	}
	if req.ServiceFee < 0 {
		return nil, apperr.Validation("serviceFee cannot be negative")
	}
	for i, leg := range req.Legs {
		if err := validateLeg(i, leg); err != nil {
			return nil, err
		}
	}

	rates := resolveRates(defaults, req.Rates)

	var grandNet, grandVAT, grandGross float64
	legs := make([]transport.LegBreakdown, 0, len(req.Legs))

	for _, leg := range req.Legs {
		rate := legVATRate(leg, vat)
		subtotal := CalculateLegSubtotal(leg, rates)
		net, vatAmount, gross := money.Split(subtotal, rate, false)

		legs = append(legs, transport.LegBreakdown{
			SubtotalExVAT: money.Round2(net),
			VAT:           money.Round2(vatAmount),
			Total:         money.Round2(gross),
			VATRate:       rate,
		})

		grandNet += net
		grandVAT += vatAmount
		grandGross += gross
	}

	// The service fee carries the first leg's VAT rate.
	feeRate := legVATRate(req.Legs[0], vat)
	feeNet, feeVAT, feeGross := money.Split(req.ServiceFee, feeRate, false)
	grandNet += feeNet
	grandVAT += feeVAT
	grandGross += feeGross

	return &transport.QuoteBreakdown{
		Legs: legs,
		ServiceFee: transport.LegBreakdown{
			SubtotalExVAT: money.Round2(feeNet),
			VAT:           money.Round2(feeVAT),
			Total:         money.Round2(feeGross),
			VATRate:       feeRate,
		},
		GrandExVAT: money.Round2(grandNet),
		GrandVAT:   money.Round2(grandVAT),
		GrandTotal: money.Round2(grandGross),
	}, nil
}
