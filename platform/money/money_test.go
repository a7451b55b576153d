package money

import (
	"math"
	"testing"
)

func TestSplit_ExclusiveAmount(t *testing.T) {
	net, vat, gross := Split(100, 0.06, false)

	if net != 100 {
		t.Fatalf("expected net 100, got %v", net)
	}
	if Round2(vat) != 6 {
		t.Fatalf("expected vat 6, got %v", vat)
	}
	if Round2(gross) != 106 {
		t.Fatalf("expected gross 106, got %v", gross)
	}
}

func TestSplit_InclusiveAmount(t *testing.T) {
	net, vat, gross := Split(1000, 0.06, true)

	if gross != 1000 {
		t.Fatalf("expected gross 1000, got %v", gross)
	}
	if Round2(net) != 943.40 {
		t.Fatalf("expected net 943.40, got %v", Round2(net))
	}
	if Round2(vat) != 56.60 {
		t.Fatalf("expected vat 56.60, got %v", Round2(vat))
	}
}

func TestSplit_RoundTrip(t *testing.T) {
	rates := []float64{0, 0.06, 0.12, 0.21, 0.25, 1}
	amounts := []float64{0, 0.01, 1, 37.5, 1000, 123456.78}

	for _, rate := range rates {
		for _, amount := range amounts {
			for _, incl := range []bool{true, false} {
				net, vat, gross := Split(amount, rate, incl)
				if diff := math.Abs(net + vat - gross); diff > 1e-9 {
					t.Fatalf("net+vat != gross for amount=%v rate=%v incl=%v (diff %v)", amount, rate, incl, diff)
				}
			}
		}
	}
}

func TestSplit_ZeroRate(t *testing.T) {
	net, vat, gross := Split(500, 0, true)
	if net != 500 || vat != 0 || gross != 500 {
		t.Fatalf("expected 500/0/500, got %v/%v/%v", net, vat, gross)
	}
}

func TestRound2(t *testing.T) {
	cases := map[float64]float64{
		943.396226: 943.40,
		56.603773:  56.60,
		0.005:      0.01,
		-1.005:     -1,
		0:          0,
	}
	for in, want := range cases {
		if got := Round2(in); got != want {
			t.Fatalf("Round2(%v) = %v, want %v", in, got, want)
		}
	}
}
