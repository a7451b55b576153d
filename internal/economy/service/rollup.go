package service

import (
	"time"

	"charterdesk_backend/internal/economy/transport"
	"charterdesk_backend/platform/money"
)

// monthKey formats a time as a YYYY-MM bucket key.
func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// monthsInRange returns one key per calendar month overlapping [from, to],
// in order, with no gaps.
func monthsInRange(from, to time.Time) []string {
	keys := []string{}
	cur := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(end) {
		keys = append(keys, monthKey(cur))
		cur = cur.AddDate(0, 1, 0)
	}
	return keys
}

// amounts resolves a row's net/VAT/gross triple. Rows store either a
// full precalculated split or just a single amount; a single amount is
// split using the query-level rate and inclusive flag. Rows with no
// price at all yield zeros, the caller still counts them.
func amounts(netP, vatP, grossP *float64, vatRate float64, includeVAT bool) (net, vat, gross float64) {
	switch {
	case netP != nil && vatP != nil && grossP != nil:
		return *netP, *vatP, *grossP
	case grossP != nil:
		return money.Split(*grossP, vatRate, includeVAT)
	case netP != nil:
		return money.Split(*netP, vatRate, false)
	}
	return 0, 0, 0
}

// roundBucket rounds all monetary sums to two decimals in place.
func roundBucket(b *transport.MonthBucket) {
	b.DoneGross = money.Round2(b.DoneGross)
	b.DoneVAT = money.Round2(b.DoneVAT)
	b.DoneNet = money.Round2(b.DoneNet)
	b.ForecastGross = money.Round2(b.ForecastGross)
	b.ForecastVAT = money.Round2(b.ForecastVAT)
	b.ForecastNet = money.Round2(b.ForecastNet)
	b.CommissionForecast = money.Round2(b.CommissionForecast)
}

// addTo accumulates src into dst, used for the grand total row.
func addTo(dst, src *transport.MonthBucket) {
	dst.DoneCount += src.DoneCount
	dst.DoneGross += src.DoneGross
	dst.DoneVAT += src.DoneVAT
	dst.DoneNet += src.DoneNet
	dst.DonePassengers += src.DonePassengers
	dst.ForecastCount += src.ForecastCount
	dst.ForecastGross += src.ForecastGross
	dst.ForecastVAT += src.ForecastVAT
	dst.ForecastNet += src.ForecastNet
	dst.ForecastPassengers += src.ForecastPassengers
	dst.CommissionForecast += src.CommissionForecast
}
