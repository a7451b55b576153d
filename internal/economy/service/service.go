// Package service implements the monthly financial rollup: realized
// revenue from completed bookings reconciled against approved-offer
// forecasts, with commission.
package service

import (
	"context"
	"fmt"
	"time"

	bookingdomain "charterdesk_backend/internal/bookings/domain"
	bookingrepo "charterdesk_backend/internal/bookings/repository"
	"charterdesk_backend/internal/economy/transport"
	offerdomain "charterdesk_backend/internal/offers/domain"
	offerrepo "charterdesk_backend/internal/offers/repository"
	"charterdesk_backend/platform/apperr"
	"charterdesk_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

// queryTimeout bounds the rollup's bulk reads so an unresponsive store
// fails the request instead of blocking it.
const queryTimeout = 30 * time.Second

// BookingSource provides the bookings bulk read for the rollup.
type BookingSource interface {
	ListForRollup(ctx context.Context, from, to time.Time) ([]bookingrepo.RollupRow, error)
}

// OfferSource provides the offers bulk read for the rollup.
type OfferSource interface {
	ListForRollup(ctx context.Context, from, to time.Time) ([]offerrepo.RollupRow, error)
}

// SeriesParams are the parsed query parameters of a series request.
type SeriesParams struct {
	From       time.Time
	To         time.Time
	IncludeVAT bool
	VATRate    float64
}

// Service computes the monthly financial series.
type Service struct {
	bookings BookingSource
	offers   OfferSource
	cache    *Cache
	log      *logger.Logger
}

// New creates a new economy service.
func New(bookings BookingSource, offers OfferSource, cache *Cache, log *logger.Logger) *Service {
	return &Service{bookings: bookings, offers: offers, cache: cache, log: log}
}

// InvalidateCache bumps the cache version, orphaning all cached series.
func (s *Service) InvalidateCache(ctx context.Context) {
	if err := s.cache.Bump(ctx); err != nil {
		s.log.Warn("economy cache bump failed", "error", err)
	}
}

// Series produces one bucket per calendar month in [from, to] plus a
// grand total row. This is best-effort reporting: rows with missing or
// garbled fields are absorbed (counted or skipped, logged), never
// escalated to a request failure.
func (s *Service) Series(ctx context.Context, params SeriesParams) (*transport.SeriesResponse, error) {
	if params.To.Before(params.From) {
		return nil, apperr.Validation("to must not be before from")
	}
	if params.VATRate < 0 || params.VATRate > 1 {
		return nil, apperr.Validation("vatRate must be between 0 and 1")
	}

	key, err := s.cache.BuildKey(ctx, "economy", "series",
		params.From.Format("2006-01-02"), params.To.Format("2006-01-02"),
		fmt.Sprintf("%t", params.IncludeVAT), fmt.Sprintf("%g", params.VATRate))
	if err != nil {
		s.log.Warn("economy cache key build failed", "error", err)
		return s.compute(ctx, params)
	}

	var resp transport.SeriesResponse
	if err := s.cache.FetchJSON(ctx, key, &resp, func(ctx context.Context) (interface{}, error) {
		return s.compute(ctx, params)
	}); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Service) compute(ctx context.Context, params SeriesParams) (*transport.SeriesResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var bookingRows []bookingrepo.RollupRow
	var offerRows []offerrepo.RollupRow

	// The two bulk reads are independent, run them concurrently.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.bookings.ListForRollup(gctx, params.From, params.To)
		if err != nil {
			return fmt.Errorf("bookings read: %w", err)
		}
		bookingRows = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.offers.ListForRollup(gctx, params.From, params.To)
		if err != nil {
			return fmt.Errorf("offers read: %w", err)
		}
		offerRows = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "financial data store unavailable", err)
	}

	keys := monthsInRange(params.From, params.To)
	buckets := make(map[string]*transport.MonthBucket, len(keys))
	for _, k := range keys {
		buckets[k] = &transport.MonthBucket{Month: k}
	}

	for _, row := range bookingRows {
		if !bookingdomain.IsDone(row.Status) {
			continue
		}
		bucket, ok := buckets[s.bucketFor(row.Date, row.CreatedAt)]
		if !ok {
			s.log.RollupRowSkipped("bookings", "", "dated outside requested range")
			continue
		}
		net, vat, gross := amounts(row.NetExVAT, row.VAT, row.GrossTotal, params.VATRate, params.IncludeVAT)
		bucket.DoneCount++
		bucket.DoneNet += net
		bucket.DoneVAT += vat
		bucket.DoneGross += gross
		if row.Passengers != nil {
			bucket.DonePassengers += *row.Passengers
		}
	}

	for _, row := range offerRows {
		if !offerdomain.IsForecast(row.Status) {
			continue
		}
		bucket, ok := buckets[s.bucketFor(row.Date, row.CreatedAt)]
		if !ok {
			s.log.RollupRowSkipped("offers", "", "dated outside requested range")
			continue
		}
		net, vat, gross := amounts(row.NetExVAT, row.VAT, row.GrossTotal, params.VATRate, params.IncludeVAT)
		bucket.ForecastCount++
		bucket.ForecastNet += net
		bucket.ForecastVAT += vat
		bucket.ForecastGross += gross
		if row.Passengers != nil {
			bucket.ForecastPassengers += *row.Passengers
		}
		// Offers without a commission percentage contribute zero,
		// never an estimate.
		if row.CommissionPercent != nil {
			bucket.CommissionForecast += gross * (*row.CommissionPercent / 100)
		}
	}

	resp := &transport.SeriesResponse{
		From:    params.From.Format("2006-01-02"),
		To:      params.To.Format("2006-01-02"),
		Buckets: make([]transport.MonthBucket, 0, len(keys)),
		Total:   transport.MonthBucket{Month: "total"},
	}
	for _, k := range keys {
		addTo(&resp.Total, buckets[k])
		roundBucket(buckets[k])
		resp.Buckets = append(resp.Buckets, *buckets[k])
	}
	roundBucket(&resp.Total)
	return resp, nil
}

// bucketFor picks the bucket key: trip date when present, otherwise the
// record's creation date.
func (s *Service) bucketFor(date *time.Time, createdAt time.Time) string {
	if date != nil {
		return monthKey(*date)
	}
	return monthKey(createdAt)
}
