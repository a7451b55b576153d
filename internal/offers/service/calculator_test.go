package service

import (
	"math"
	"testing"

	"charterdesk_backend/internal/offers/transport"
	"charterdesk_backend/platform/apperr"
)

var testRates = Rates{Km: 10.9, Day: 300, Evening: 400, Weekend: 500}
var testVAT = VATRates{Domestic: 0.06, International: 0}

func TestCalculateLegSubtotal_Formula(t *testing.T) {
	leg := transport.QuoteLegInput{Km: 300, HoursDay: 2}
	got := CalculateLegSubtotal(leg, testRates)
	if got != 3870 {
		t.Fatalf("expected 3870, got %v", got)
	}
}

func TestCalculateLegSubtotal_DiscountClampsAtZero(t *testing.T) {
	leg := transport.QuoteLegInput{Km: 10, Discount: 100000}
	got := CalculateLegSubtotal(leg, testRates)
	if got != 0 {
		t.Fatalf("subtotal must clamp at zero, got %v", got)
	}
}

func TestCalculateQuote_TwoLegDomesticExample(t *testing.T) {
	req := transport.QuoteRequest{
		Legs: []transport.QuoteLegInput{
			{IsDomestic: true, Km: 300, HoursDay: 2},
			{IsDomestic: true, Km: 150, HoursDay: 1},
		},
		ServiceFee: 1800,
	}

	breakdown, err := CalculateQuote(req, testRates, testVAT)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if breakdown.Legs[0].SubtotalExVAT != 3870 {
		t.Fatalf("expected leg1 ex-VAT 3870, got %v", breakdown.Legs[0].SubtotalExVAT)
	}
	leg2 := 150*10.9 + 1*300.0
	if breakdown.Legs[1].SubtotalExVAT != leg2 {
		t.Fatalf("expected leg2 ex-VAT %v, got %v", leg2, breakdown.Legs[1].SubtotalExVAT)
	}

	wantExVAT := 3870 + leg2 + 1800
	if breakdown.GrandExVAT != wantExVAT {
		t.Fatalf("expected grand ex-VAT %v, got %v", wantExVAT, breakdown.GrandExVAT)
	}
	wantVAT := wantExVAT * 0.06
	if math.Abs(breakdown.GrandVAT-wantVAT) > 0.005 {
		t.Fatalf("expected grand VAT %v, got %v", wantVAT, breakdown.GrandVAT)
	}
	if math.Abs(breakdown.GrandTotal-(wantExVAT+wantVAT)) > 0.005 {
		t.Fatalf("expected grand total %v, got %v", wantExVAT+wantVAT, breakdown.GrandTotal)
	}
}

func TestCalculateQuote_GrandEqualsSumOfParts(t *testing.T) {
	cases := []transport.QuoteRequest{
		{
			Legs:       []transport.QuoteLegInput{{IsDomestic: true, Km: 123.4, HoursDay: 3.5, HoursEvening: 1}},
			ServiceFee: 250,
		},
		{
			Legs: []transport.QuoteLegInput{
				{IsDomestic: true, Km: 99.9, HoursWeekend: 2, Discount: 50},
				{IsDomestic: false, Km: 480, HoursDay: 6},
			},
			ServiceFee: 1800,
		},
	}

	for _, req := range cases {
		breakdown, err := CalculateQuote(req, testRates, testVAT)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var sum float64
		for _, leg := range breakdown.Legs {
			sum += leg.Total
		}
		sum += breakdown.ServiceFee.Total
		// Per-leg lines are rounded independently, so allow one cent per line.
		if math.Abs(sum-breakdown.GrandTotal) > 0.01*float64(len(breakdown.Legs)+1) {
			t.Fatalf("grand total %v drifts from per-line sum %v", breakdown.GrandTotal, sum)
		}
		if math.Abs(breakdown.GrandExVAT+breakdown.GrandVAT-breakdown.GrandTotal) > 0.011 {
			t.Fatalf("grand ex-VAT %v + VAT %v != total %v", breakdown.GrandExVAT, breakdown.GrandVAT, breakdown.GrandTotal)
		}
	}
}

func TestCalculateQuote_InternationalLegHasZeroVAT(t *testing.T) {
	req := transport.QuoteRequest{
		Legs: []transport.QuoteLegInput{{IsDomestic: false, Km: 1000}},
	}
	breakdown, err := CalculateQuote(req, testRates, testVAT)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if breakdown.Legs[0].VAT != 0 {
		t.Fatalf("international leg must carry zero VAT, got %v", breakdown.Legs[0].VAT)
	}
	if breakdown.ServiceFee.VATRate != 0 {
		t.Fatalf("service fee takes the first leg's rate, got %v", breakdown.ServiceFee.VATRate)
	}
	if breakdown.GrandTotal != breakdown.GrandExVAT {
		t.Fatalf("all-international quote must have total == ex-VAT")
	}
}

func TestCalculateQuote_RateOverrides(t *testing.T) {
	km := 20.0
	req := transport.QuoteRequest{
		Legs:  []transport.QuoteLegInput{{IsDomestic: true, Km: 100}},
		Rates: &transport.RatesInput{KmRate: &km},
	}
	breakdown, err := CalculateQuote(req, testRates, testVAT)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if breakdown.Legs[0].SubtotalExVAT != 2000 {
		t.Fatalf("expected overridden km rate to apply, got %v", breakdown.Legs[0].SubtotalExVAT)
	}
}

func TestCalculateQuote_RejectsNegativeInputs(t *testing.T) {
	cases := []transport.QuoteRequest{
		{Legs: []transport.QuoteLegInput{{Km: -1}}},
		{Legs: []transport.QuoteLegInput{{HoursDay: -0.5}}},
		{Legs: []transport.QuoteLegInput{{Discount: -10}}},
		{Legs: []transport.QuoteLegInput{{Km: 1}}, ServiceFee: -1},
		{Legs: nil},
		{Legs: []transport.QuoteLegInput{{}, {}, {}}},
	}
	for i, req := range cases {
		_, err := CalculateQuote(req, testRates, testVAT)
		if err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
		if !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("case %d: expected KindValidation, got %v", i, err)
		}
	}
}
