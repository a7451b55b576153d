package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charterdesk_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ── Domain Models ─────────────────────────────────────────────────────────────

// Offer is the database model for a price request. Pricing fields are
// pointers: they stay null until staff attaches a breakdown.
type Offer struct {
	ID                  uuid.UUID  `db:"id"`
	OfferNumber         string     `db:"offer_number"`
	Status              string     `db:"status"`
	CustomerName        string     `db:"customer_name"`
	Company             *string    `db:"company"`
	Email               string     `db:"email"`
	Phone               string     `db:"phone"`
	Address             *string    `db:"address"`
	ExternalRef         *string    `db:"external_ref"`
	InternalRef         *string    `db:"internal_ref"`
	OutboundOrigin      string     `db:"outbound_origin"`
	OutboundDestination string     `db:"outbound_destination"`
	OutboundDate        *time.Time `db:"outbound_date"`
	OutboundTime        *string    `db:"outbound_time"`
	OutboundPassengers  int        `db:"outbound_passengers"`
	OutboundNotes       *string    `db:"outbound_notes"`
	OutboundDomestic    bool       `db:"outbound_domestic"`
	ReturnOrigin        *string    `db:"return_origin"`
	ReturnDestination   *string    `db:"return_destination"`
	ReturnDate          *time.Time `db:"return_date"`
	ReturnTime          *string    `db:"return_time"`
	ReturnPassengers    *int       `db:"return_passengers"`
	ReturnNotes         *string    `db:"return_notes"`
	OutSubtotalExVAT    *float64   `db:"out_subtotal_ex_vat"`
	OutVAT              *float64   `db:"out_vat"`
	OutTotal            *float64   `db:"out_total"`
	OutVATRate          *float64   `db:"out_vat_rate"`
	RetSubtotalExVAT    *float64   `db:"ret_subtotal_ex_vat"`
	RetVAT              *float64   `db:"ret_vat"`
	RetTotal            *float64   `db:"ret_total"`
	RetVATRate          *float64   `db:"ret_vat_rate"`
	ServiceFee          *float64   `db:"service_fee"`
	ServiceFeeVAT       *float64   `db:"service_fee_vat"`
	ServiceFeeTotal     *float64   `db:"service_fee_total"`
	ServiceFeeVATRate   *float64   `db:"service_fee_vat_rate"`
	GrandExVAT          *float64   `db:"grand_ex_vat"`
	GrandVAT            *float64   `db:"grand_vat"`
	GrandTotal          *float64   `db:"grand_total"`
	CommissionPercent   *float64   `db:"commission_percent"`
	Approved            bool       `db:"approved"`
	ApprovedAt          *time.Time `db:"approved_at"`
	DeclineReason       *string    `db:"decline_reason"`
	ChangeRequestNote   *string    `db:"change_request_note"`
	ChangeRequestAt     *time.Time `db:"change_request_at"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
}

// HasBreakdown reports whether a pricing breakdown is attached.
func (o *Offer) HasBreakdown() bool {
	return o.GrandTotal != nil
}

// HasReturn reports whether the offer carries a return leg.
func (o *Offer) HasReturn() bool {
	return o.ReturnOrigin != nil
}

// Pricing groups the calculated fields written atomically with the
// received -> answered transition.
type Pricing struct {
	OutSubtotalExVAT  float64
	OutVAT            float64
	OutTotal          float64
	OutVATRate        float64
	RetSubtotalExVAT  *float64
	RetVAT            *float64
	RetTotal          *float64
	RetVATRate        *float64
	ServiceFee        float64
	ServiceFeeVAT     float64
	ServiceFeeTotal   float64
	ServiceFeeVATRate float64
	GrandExVAT        float64
	GrandVAT          float64
	GrandTotal        float64
	CommissionPercent *float64
}

// ListParams contains parameters for listing offers.
type ListParams struct {
	Status   *string
	Search   string
	Page     int
	PageSize int
}

// ListResult contains the paginated result of listing offers.
type ListResult struct {
	Items      []Offer
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// ── Repository ────────────────────────────────────────────────────────────────

const offerNotFoundMsg = "offer not found"

// ErrStatusChanged is returned when a compare-and-swap status update finds
// the row in a different state than expected; two concurrent transitions
// can never both succeed.
var ErrStatusChanged = errors.New("offer status changed concurrently")

const offerColumns = `
	id, offer_number, status,
	customer_name, company, email, phone, address, external_ref, internal_ref,
	outbound_origin, outbound_destination, outbound_date, outbound_time, outbound_passengers, outbound_notes, outbound_domestic,
	return_origin, return_destination, return_date, return_time, return_passengers, return_notes,
	out_subtotal_ex_vat, out_vat, out_total, out_vat_rate,
	ret_subtotal_ex_vat, ret_vat, ret_total, ret_vat_rate,
	service_fee, service_fee_vat, service_fee_total, service_fee_vat_rate,
	grand_ex_vat, grand_vat, grand_total, commission_percent,
	approved, approved_at, decline_reason, change_request_note, change_request_at,
	created_at, updated_at`

// Repository provides database operations for offers.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new offers repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanOffer(row pgx.Row) (*Offer, error) {
	var o Offer
	err := row.Scan(
		&o.ID, &o.OfferNumber, &o.Status,
		&o.CustomerName, &o.Company, &o.Email, &o.Phone, &o.Address, &o.ExternalRef, &o.InternalRef,
		&o.OutboundOrigin, &o.OutboundDestination, &o.OutboundDate, &o.OutboundTime, &o.OutboundPassengers, &o.OutboundNotes, &o.OutboundDomestic,
		&o.ReturnOrigin, &o.ReturnDestination, &o.ReturnDate, &o.ReturnTime, &o.ReturnPassengers, &o.ReturnNotes,
		&o.OutSubtotalExVAT, &o.OutVAT, &o.OutTotal, &o.OutVATRate,
		&o.RetSubtotalExVAT, &o.RetVAT, &o.RetTotal, &o.RetVATRate,
		&o.ServiceFee, &o.ServiceFeeVAT, &o.ServiceFeeTotal, &o.ServiceFeeVATRate,
		&o.GrandExVAT, &o.GrandVAT, &o.GrandTotal, &o.CommissionPercent,
		&o.Approved, &o.ApprovedAt, &o.DeclineReason, &o.ChangeRequestNote, &o.ChangeRequestAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(offerNotFoundMsg)
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// NextOfferNumber atomically generates the next human-readable offer number,
// format HB<yy>-<seq>, with the sequence restarting each year.
func (r *Repository) NextOfferNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()

	var nextNum int
	query := `
		INSERT INTO offer_counters (year, last_number)
		VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET last_number = offer_counters.last_number + 1
		RETURNING last_number`

	if err := r.pool.QueryRow(ctx, query, year).Scan(&nextNum); err != nil {
		return "", fmt.Errorf("failed to generate offer number: %w", err)
	}

	return fmt.Sprintf("HB%02d-%04d", year%100, nextNum), nil
}

// Create inserts a new offer.
func (r *Repository) Create(ctx context.Context, o *Offer) error {
	query := `
		INSERT INTO offers (
			id, offer_number, status,
			customer_name, company, email, phone, address, external_ref,
			outbound_origin, outbound_destination, outbound_date, outbound_time, outbound_passengers, outbound_notes, outbound_domestic,
			return_origin, return_destination, return_date, return_time, return_passengers, return_notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`

	_, err := r.pool.Exec(ctx, query,
		o.ID, o.OfferNumber, o.Status,
		o.CustomerName, o.Company, o.Email, o.Phone, o.Address, o.ExternalRef,
		o.OutboundOrigin, o.OutboundDestination, o.OutboundDate, o.OutboundTime, o.OutboundPassengers, o.OutboundNotes, o.OutboundDomestic,
		o.ReturnOrigin, o.ReturnDestination, o.ReturnDate, o.ReturnTime, o.ReturnPassengers, o.ReturnNotes,
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create offer: %w", err)
	}
	return nil
}

// GetByID fetches one offer by id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE id = $1`
	return scanOffer(r.pool.QueryRow(ctx, query, id))
}

// GetByNumber fetches one offer by its human-readable number.
func (r *Repository) GetByNumber(ctx context.Context, number string) (*Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE lower(offer_number) = lower($1)`
	return scanOffer(r.pool.QueryRow(ctx, query, number))
}

// List returns a filtered, paginated page of offers, newest first.
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 25
	}

	where := []string{"TRUE"}
	args := []interface{}{}

	if params.Status != nil {
		args = append(args, *params.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(offer_number ILIKE $%d OR customer_name ILIKE $%d OR email ILIKE $%d)", n, n, n))
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM offers WHERE ` + whereClause
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count offers: %w", err)
	}

	args = append(args, params.PageSize, (params.Page-1)*params.PageSize)
	query := fmt.Sprintf(`SELECT %s FROM offers WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		offerColumns, whereClause, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	defer rows.Close()

	items := make([]Offer, 0, params.PageSize)
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
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

// UpdateContact updates contact and reference fields.
func (r *Repository) UpdateContact(ctx context.Context, o *Offer) error {
	query := `
		UPDATE offers SET
			customer_name = $2, company = $3, email = $4, phone = $5,
			address = $6, external_ref = $7, internal_ref = $8, updated_at = now()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		o.ID, o.CustomerName, o.Company, o.Email, o.Phone, o.Address, o.ExternalRef, o.InternalRef)
	if err != nil {
		return fmt.Errorf("failed to update offer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(offerNotFoundMsg)
	}
	return nil
}

// AnswerWithPricing attaches a pricing breakdown and moves the offer to the
// answered status in a single compare-and-swap write. The precondition on
// the current status makes the transition atomic with the breakdown.
func (r *Repository) AnswerWithPricing(ctx context.Context, id uuid.UUID, expectedStatus, newStatus string, p Pricing) error {
	query := `
		UPDATE offers SET
			status = $3,
			out_subtotal_ex_vat = $4, out_vat = $5, out_total = $6, out_vat_rate = $7,
			ret_subtotal_ex_vat = $8, ret_vat = $9, ret_total = $10, ret_vat_rate = $11,
			service_fee = $12, service_fee_vat = $13, service_fee_total = $14, service_fee_vat_rate = $15,
			grand_ex_vat = $16, grand_vat = $17, grand_total = $18,
			commission_percent = $19,
			decline_reason = NULL,
			updated_at = now()
		WHERE id = $1 AND status = $2`

	tag, err := r.pool.Exec(ctx, query,
		id, expectedStatus, newStatus,
		p.OutSubtotalExVAT, p.OutVAT, p.OutTotal, p.OutVATRate,
		p.RetSubtotalExVAT, p.RetVAT, p.RetTotal, p.RetVATRate,
		p.ServiceFee, p.ServiceFeeVAT, p.ServiceFeeTotal, p.ServiceFeeVATRate,
		p.GrandExVAT, p.GrandVAT, p.GrandTotal,
		p.CommissionPercent,
	)
	if err != nil {
		return fmt.Errorf("failed to answer offer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStatusChanged
	}
	return nil
}

// UpdateStatusCAS performs a compare-and-swap status transition.
// Returns ErrStatusChanged when the row was not in the expected state.
func (r *Repository) UpdateStatusCAS(ctx context.Context, id uuid.UUID, expectedStatus, newStatus string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE offers SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2`, id, expectedStatus, newStatus)
	if err != nil {
		return fmt.Errorf("failed to update offer status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStatusChanged
	}
	return nil
}

// SetApproved records the customer approval marker together with the
// answered -> approved transition.
func (r *Repository) SetApproved(ctx context.Context, id uuid.UUID, expectedStatus, newStatus string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE offers SET status = $3, approved = TRUE, approved_at = now(), updated_at = now()
		WHERE id = $1 AND status = $2`, id, expectedStatus, newStatus)
	if err != nil {
		return fmt.Errorf("failed to approve offer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStatusChanged
	}
	return nil
}

// SetDeclined records the decline and its optional reason.
func (r *Repository) SetDeclined(ctx context.Context, id uuid.UUID, expectedStatus, newStatus string, reason *string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE offers SET status = $3, decline_reason = $4, updated_at = now()
		WHERE id = $1 AND status = $2`, id, expectedStatus, newStatus, reason)
	if err != nil {
		return fmt.Errorf("failed to decline offer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStatusChanged
	}
	return nil
}

// SetChangeRequest stores the customer's change request note with a timestamp.
func (r *Repository) SetChangeRequest(ctx context.Context, id uuid.UUID, note string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE offers SET change_request_note = $2, change_request_at = now(), updated_at = now()
		WHERE id = $1`, id, note)
	if err != nil {
		return fmt.Errorf("failed to record change request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(offerNotFoundMsg)
	}
	return nil
}

// RollupRow is the slim projection the financial rollup reads from offers.
type RollupRow struct {
	Status            string
	Date              *time.Time
	CreatedAt         time.Time
	NetExVAT          *float64
	VAT               *float64
	GrossTotal        *float64
	Passengers        *int
	CommissionPercent *float64
}

// ListForRollup streams offers overlapping [from, to], dated by outbound
// travel date with creation date as fallback. Nullable pricing stays
// nullable so the aggregator can classify rows explicitly.
func (r *Repository) ListForRollup(ctx context.Context, from, to time.Time) ([]RollupRow, error) {
	query := `
		SELECT status, outbound_date, created_at,
			grand_ex_vat, grand_vat, grand_total,
			outbound_passengers + COALESCE(return_passengers, 0),
			commission_percent
		FROM offers
		WHERE COALESCE(outbound_date, created_at) >= $1
		  AND COALESCE(outbound_date, created_at) <= $2`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query offers for rollup: %w", err)
	}
	defer rows.Close()

	out := []RollupRow{}
	for rows.Next() {
		var row RollupRow
		if err := rows.Scan(&row.Status, &row.Date, &row.CreatedAt,
			&row.NetExVAT, &row.VAT, &row.GrossTotal,
			&row.Passengers, &row.CommissionPercent); err != nil {
			return nil, fmt.Errorf("failed to scan rollup row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rollup rows: %w", err)
	}
	return out, nil
}
