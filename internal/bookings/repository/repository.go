// Package repository provides data access for bookings.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charterdesk_backend/internal/bookings/domain"
	offerrepo "charterdesk_backend/internal/offers/repository"
	"charterdesk_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Booking is the database model for a confirmed trip. Trip, contact and
// price fields are snapshots copied from the offer at conversion time.
type Booking struct {
	ID            uuid.UUID  `db:"id"`
	OfferID       uuid.UUID  `db:"offer_id"`
	OfferNumber   string     `db:"offer_number"`
	Status        string     `db:"status"`
	CustomerName  string     `db:"customer_name"`
	Company       *string    `db:"company"`
	Email         string     `db:"email"`
	Phone         string     `db:"phone"`
	Origin        string     `db:"origin"`
	Destination   string     `db:"destination"`
	TravelDate    *time.Time `db:"travel_date"`
	TravelTime    *string    `db:"travel_time"`
	Passengers    int        `db:"passengers"`
	Driver        *string    `db:"driver"`
	Vehicle       *string    `db:"vehicle"`
	OnSiteTime    *string    `db:"on_site_time"`
	InternalNotes *string    `db:"internal_notes"`
	NetExVAT      *float64   `db:"net_ex_vat"`
	VAT           *float64   `db:"vat"`
	GrossTotal    *float64   `db:"gross_total"`
	CompletedAt   *time.Time `db:"completed_at"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

// ListParams contains parameters for listing bookings.
type ListParams struct {
	Status   *string
	Search   string
	Page     int
	PageSize int
}

// ListResult contains the paginated result of listing bookings.
type ListResult struct {
	Items      []Booking
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// ErrStatusChanged is returned when a compare-and-swap status write
// finds the row in a different state than expected.
var ErrStatusChanged = errors.New("booking status changed concurrently")

const bookingNotFoundMsg = "booking not found"

const bookingColumns = `
	id, offer_id, offer_number, status,
	customer_name, company, email, phone,
	origin, destination, travel_date, travel_time, passengers,
	driver, vehicle, on_site_time, internal_notes,
	net_ex_vat, vat, gross_total,
	completed_at, created_at, updated_at`

// Repository provides database operations for bookings.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new bookings repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID, &b.OfferID, &b.OfferNumber, &b.Status,
		&b.CustomerName, &b.Company, &b.Email, &b.Phone,
		&b.Origin, &b.Destination, &b.TravelDate, &b.TravelTime, &b.Passengers,
		&b.Driver, &b.Vehicle, &b.OnSiteTime, &b.InternalNotes,
		&b.NetExVAT, &b.VAT, &b.GrossTotal,
		&b.CompletedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateFromOffer inserts a booking snapshotted from the offer and flips
// the offer into booking_confirmed in the same transaction. The offer
// status update is a compare-and-swap on approved; losing the race rolls
// the insert back and returns ErrStatusChanged.
func (r *Repository) CreateFromOffer(ctx context.Context, booking *Booking, offer *offerrepo.Offer) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertQuery := `
		INSERT INTO bookings (` + bookingColumns + `
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`

	if _, err := tx.Exec(ctx, insertQuery,
		booking.ID, booking.OfferID, booking.OfferNumber, booking.Status,
		booking.CustomerName, booking.Company, booking.Email, booking.Phone,
		booking.Origin, booking.Destination, booking.TravelDate, booking.TravelTime, booking.Passengers,
		booking.Driver, booking.Vehicle, booking.OnSiteTime, booking.InternalNotes,
		booking.NetExVAT, booking.VAT, booking.GrossTotal,
		booking.CompletedAt, booking.CreatedAt, booking.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	result, err := tx.Exec(ctx,
		`UPDATE offers SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		"booking_confirmed", offer.ID, "approved",
	)
	if err != nil {
		return fmt.Errorf("failed to confirm offer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrStatusChanged
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a booking by its ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(bookingNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return b, nil
}

// GetByOfferID retrieves the booking created from a given offer.
func (r *Repository) GetByOfferID(ctx context.Context, offerID uuid.UUID) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE offer_id = $1`

	b, err := scanBooking(r.pool.QueryRow(ctx, query, offerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(bookingNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return b, nil
}

// List returns bookings matching the filter, newest travel date first.
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 25
	}

	where := "WHERE 1=1"
	args := []any{}
	argPos := 1

	if params.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, *params.Status)
		argPos++
	}
	if params.Search != "" {
		where += fmt.Sprintf(" AND (customer_name ILIKE $%d OR offer_number ILIKE $%d OR origin ILIKE $%d OR destination ILIKE $%d)", argPos, argPos, argPos, argPos)
		args = append(args, "%"+params.Search+"%")
		argPos++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM bookings "+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM bookings %s
		ORDER BY travel_date DESC NULLS LAST, created_at DESC
		LIMIT $%d OFFSET $%d`, bookingColumns, where, argPos, argPos+1)
	args = append(args, params.PageSize, (params.Page-1)*params.PageSize)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	items := []Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		items = append(items, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bookings: %w", err)
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdateOperational patches driver, vehicle, on-site time and notes.
func (r *Repository) UpdateOperational(ctx context.Context, id uuid.UUID, driver, vehicle, onSiteTime, internalNotes *string) (*Booking, error) {
	query := `
		UPDATE bookings SET
			driver = COALESCE($2, driver),
			vehicle = COALESCE($3, vehicle),
			on_site_time = COALESCE($4, on_site_time),
			internal_notes = COALESCE($5, internal_notes),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + bookingColumns

	b, err := scanBooking(r.pool.QueryRow(ctx, query, id, driver, vehicle, onSiteTime, internalNotes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(bookingNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	return b, nil
}

// UpdateStatusCAS flips the booking status only if it still holds the
// expected value. Returns ErrStatusChanged when the row moved.
func (r *Repository) UpdateStatusCAS(ctx context.Context, id uuid.UUID, expected, next domain.Status, completedAt *time.Time) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE bookings SET status = $1, completed_at = COALESCE($2, completed_at), updated_at = NOW()
		 WHERE id = $3 AND status = $4`,
		string(next), completedAt, id, string(expected),
	)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if result.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check booking: %w", err)
		}
		if !exists {
			return apperr.NotFound(bookingNotFoundMsg)
		}
		return ErrStatusChanged
	}
	return nil
}

// RollupRow is the slim projection the financial rollup reads.
type RollupRow struct {
	Status     string
	Date       *time.Time
	CreatedAt  time.Time
	NetExVAT   *float64
	VAT        *float64
	GrossTotal *float64
	Passengers *int
}

// ListForRollup streams bookings overlapping [from, to], bucketed by
// travel date with creation date as fallback. Nullable fields stay
// nullable so the aggregator can classify rows explicitly.
func (r *Repository) ListForRollup(ctx context.Context, from, to time.Time) ([]RollupRow, error) {
	query := `
		SELECT status, travel_date, created_at, net_ex_vat, vat, gross_total, passengers
		FROM bookings
		WHERE COALESCE(travel_date, created_at) >= $1
		  AND COALESCE(travel_date, created_at) <= $2`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings for rollup: %w", err)
	}
	defer rows.Close()

	out := []RollupRow{}
	for rows.Next() {
		var row RollupRow
		if err := rows.Scan(&row.Status, &row.Date, &row.CreatedAt, &row.NetExVAT, &row.VAT, &row.GrossTotal, &row.Passengers); err != nil {
			return nil, fmt.Errorf("failed to scan rollup row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rollup rows: %w", err)
	}
	return out, nil
}
