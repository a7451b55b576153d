package service

import (
	"context"
	"errors"
	"testing"
	"time"

	bookingrepo "charterdesk_backend/internal/bookings/repository"
	offerrepo "charterdesk_backend/internal/offers/repository"
	"charterdesk_backend/platform/apperr"
	"charterdesk_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type stubBookings struct {
	rows []bookingrepo.RollupRow
	err  error
}

func (s *stubBookings) ListForRollup(ctx context.Context, from, to time.Time) ([]bookingrepo.RollupRow, error) {
	return s.rows, s.err
}

type stubOffers struct {
	rows []offerrepo.RollupRow
	err  error
}

func (s *stubOffers) ListForRollup(ctx context.Context, from, to time.Time) ([]offerrepo.RollupRow, error) {
	return s.rows, s.err
}

func newTestService(bookings *stubBookings, offers *stubOffers) *Service {
	return New(bookings, offers, NewCache(nil, 0), logger.New("development"))
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func TestSeriesBucketsPartitionRange(t *testing.T) {
	svc := newTestService(&stubBookings{}, &stubOffers{})

	resp, err := svc.Series(context.Background(), SeriesParams{
		From:    time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC),
		To:      time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC),
		VATRate: 0.06,
	})
	if err != nil {
		t.Fatalf("Series: %v", err)
	}

	want := []string{"2025-11", "2025-12", "2026-01", "2026-02"}
	if len(resp.Buckets) != len(want) {
		t.Fatalf("got %d buckets, want %d", len(resp.Buckets), len(want))
	}
	for i, w := range want {
		if resp.Buckets[i].Month != w {
			t.Fatalf("bucket %d = %s, want %s", i, resp.Buckets[i].Month, w)
		}
	}
}

func TestSeriesVATSplitFromGross(t *testing.T) {
	bookings := &stubBookings{rows: []bookingrepo.RollupRow{
		{
			Status:     "completed",
			Date:       date(2025, 2, 10),
			GrossTotal: fp(1000),
			Passengers: ip(30),
		},
	}}
	svc := newTestService(bookings, &stubOffers{})

	resp, err := svc.Series(context.Background(), SeriesParams{
		From:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		To:         time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		IncludeVAT: true,
		VATRate:    0.06,
	})
	if err != nil {
		t.Fatalf("Series: %v", err)
	}

	feb := resp.Buckets[1]
	if feb.Month != "2025-02" {
		t.Fatalf("expected February bucket, got %s", feb.Month)
	}
	if feb.DoneCount != 1 {
		t.Fatalf("done count = %d, want 1", feb.DoneCount)
	}
	if feb.DoneGross != 1000 {
		t.Fatalf("done gross = %v, want 1000", feb.DoneGross)
	}
	if feb.DoneNet != 943.40 {
		t.Fatalf("done net = %v, want 943.40", feb.DoneNet)
	}
	if feb.DoneVAT != 56.60 {
		t.Fatalf("done VAT = %v, want 56.60", feb.DoneVAT)
	}
	if feb.DonePassengers != 30 {
		t.Fatalf("done passengers = %d, want 30", feb.DonePassengers)
	}

	jan, mar := resp.Buckets[0], resp.Buckets[2]
	if jan.DoneCount != 0 || mar.DoneCount != 0 {
		t.Fatal("booking leaked into neighbouring months")
	}
	if resp.Total.DoneCount != 1 || resp.Total.DoneGross != 1000 {
		t.Fatalf("total row mismatch: %+v", resp.Total)
	}
}

func TestSeriesNullPriceStillCounts(t *testing.T) {
	bookings := &stubBookings{rows: []bookingrepo.RollupRow{
		{Status: "genomförd", Date: date(2025, 5, 2)},
		{Status: "done", Date: date(2025, 5, 20), GrossTotal: fp(500)},
	}}
	svc := newTestService(bookings, &stubOffers{})

	resp, err := svc.Series(context.Background(), SeriesParams{
		From:       time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		To:         time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC),
		IncludeVAT: true,
		VATRate:    0.06,
	})
	if err != nil {
		t.Fatalf("Series: %v", err)
	}

	may := resp.Buckets[0]
	if may.DoneCount != 2 {
		t.Fatalf("done count = %d, want 2 (null price still counts)", may.DoneCount)
	}
	if may.DoneGross != 500 {
		t.Fatalf("done gross = %v, want 500", may.DoneGross)
	}
}

func TestSeriesForecastAndCommission(t *testing.T) {
	offers := &stubOffers{rows: []offerrepo.RollupRow{
		{
			Status:            "approved",
			Date:              date(2025, 7, 12),
			NetExVAT:          fp(9434),
			VAT:               fp(566),
			GrossTotal:        fp(10000),
			Passengers:        ip(48),
			CommissionPercent: fp(5),
		},
		{
			Status:     "booking_confirmed",
			Date:       date(2025, 7, 20),
			GrossTotal: fp(2000),
		},
		// Declined offers never reach the forecast.
		{Status: "declined", Date: date(2025, 7, 21), GrossTotal: fp(99999)},
		// Still-open offers do not either.
		{Status: "answered", Date: date(2025, 7, 22), GrossTotal: fp(99999)},
	}}
	svc := newTestService(&stubBookings{}, offers)

	resp, err := svc.Series(context.Background(), SeriesParams{
		From:       time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		To:         time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC),
		IncludeVAT: true,
		VATRate:    0.06,
	})
	if err != nil {
		t.Fatalf("Series: %v", err)
	}

	jul := resp.Buckets[0]
	if jul.ForecastCount != 2 {
		t.Fatalf("forecast count = %d, want 2", jul.ForecastCount)
	}
	if jul.ForecastGross != 12000 {
		t.Fatalf("forecast gross = %v, want 12000", jul.ForecastGross)
	}
	// Only the first offer carries a commission percentage; the second
	// contributes zero, never an estimate.
	if jul.CommissionForecast != 500 {
		t.Fatalf("commission forecast = %v, want 500", jul.CommissionForecast)
	}
	if jul.ForecastPassengers != 48 {
		t.Fatalf("forecast passengers = %d, want 48", jul.ForecastPassengers)
	}
}

func TestSeriesDateFallbackToCreatedAt(t *testing.T) {
	created := time.Date(2025, 9, 3, 10, 0, 0, 0, time.UTC)
	bookings := &stubBookings{rows: []bookingrepo.RollupRow{
		{Status: "completed", Date: nil, CreatedAt: created, GrossTotal: fp(300)},
	}}
	svc := newTestService(bookings, &stubOffers{})

	resp, err := svc.Series(context.Background(), SeriesParams{
		From:       time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		To:         time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC),
		IncludeVAT: true,
		VATRate:    0.06,
	})
	if err != nil {
		t.Fatalf("Series: %v", err)
	}
	if resp.Buckets[0].DoneCount != 1 {
		t.Fatal("booking without trip date should bucket by creation date")
	}
}

func TestSeriesRejectsInvertedRange(t *testing.T) {
	svc := newTestService(&stubBookings{}, &stubOffers{})
	_, err := svc.Series(context.Background(), SeriesParams{
		From:    time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		To:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		VATRate: 0.06,
	})
	if err == nil {
		t.Fatal("expected validation error for inverted range")
	}
}

func TestSeriesCachedAndInvalidated(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	bookings := &stubBookings{rows: []bookingrepo.RollupRow{
		{Status: "completed", Date: date(2025, 4, 5), GrossTotal: fp(100)},
	}}
	svc := New(bookings, &stubOffers{}, NewCache(client, time.Minute), logger.New("development"))

	params := SeriesParams{
		From:       time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		To:         time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC),
		IncludeVAT: true,
		VATRate:    0.06,
	}

	first, err := svc.Series(context.Background(), params)
	if err != nil {
		t.Fatalf("Series: %v", err)
	}
	if first.Buckets[0].DoneCount != 1 {
		t.Fatalf("done count = %d, want 1", first.Buckets[0].DoneCount)
	}

	// A second read hits the cache, not the source.
	bookings.rows = nil
	second, err := svc.Series(context.Background(), params)
	if err != nil {
		t.Fatalf("Series: %v", err)
	}
	if second.Buckets[0].DoneCount != 1 {
		t.Fatal("expected cached series")
	}

	// Bumping the version forces a recompute.
	svc.InvalidateCache(context.Background())
	third, err := svc.Series(context.Background(), params)
	if err != nil {
		t.Fatalf("Series: %v", err)
	}
	if third.Buckets[0].DoneCount != 0 {
		t.Fatal("expected recomputed series after invalidation")
	}
}

func TestSeriesSourceFailureIsUnavailable(t *testing.T) {
	svc := newTestService(&stubBookings{err: errors.New("connection refused")}, &stubOffers{})

	_, err := svc.Series(context.Background(), SeriesParams{
		From:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		To:      time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		VATRate: 0.06,
	})
	if err == nil {
		t.Fatal("expected error when a source read fails")
	}
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("error kind = %v, want KindUnavailable", apperr.GetKind(err))
	}
}
