package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"venue-booking/internal/availability"
	"venue-booking/internal/data/entity"
	"venue-booking/internal/pricing"
	"venue-booking/pkg/apperror"
	"venue-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type BookingRepository interface {
	// CreateIfAvailable inserts a pending booking after re-checking the slot
	// under a per-venue lock. TotalPrice is recomputed from the rule read in
	// the same transaction. Returns apperror.ErrSlotUnavailable on overlap and
	// apperror.ErrPricingNotFound when the rule is gone.
	CreateIfAvailable(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.BookingWithVenue, error)
	FindActiveOverlapping(ctx context.Context, venueID uuid.UUID, slot availability.Interval) ([]availability.Interval, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*entity.BookingWithVenue, error)
	CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID, status *entity.BookingStatus, limit, offset int) ([]*entity.BookingWithVenue, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID, status *entity.BookingStatus) (int64, error)

	// UpdateStatusByOwner moves a pending booking of the owner's venue to
	// status. false means no row matched.
	UpdateStatusByOwner(ctx context.Context, bookingID, ownerID uuid.UUID, status entity.BookingStatus) (bool, error)

	// Cancel archives a pending booking of the customer and deletes it in one
	// statement. A nil record means nothing was moved.
	Cancel(ctx context.Context, bookingID, customerID uuid.UUID, reason string) (*entity.CancelledBooking, error)
	FindCancelledByID(ctx context.Context, id uuid.UUID) (*entity.CancelledBooking, error)
	FindCancelledByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.CancelledBooking, error)

	FindApprovedWithDueBetween(ctx context.Context, from, to time.Time) ([]*entity.BookingWithVenue, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `b.id, b.venue_id, b.customer_id, b.booking_code, b.booking_date, b.ends_at,
	b.duration_type, b.duration_hours, b.duration_days, b.total_price, b.paid_amount,
	b.status, b.created_at, b.updated_at`

const bookingWithVenueSelect = `
	SELECT ` + bookingColumns + `, v.name, v.owner_id, u.name, u.email
	FROM bookings b
	JOIN venues v ON v.id = b.venue_id
	JOIN users u ON u.id = b.customer_id
`

const cancelledColumns = `id, booking_id, venue_id, customer_id, booking_code, booking_date, ends_at,
	duration_type, duration_hours, duration_days, total_price, paid_amount,
	status, cancel_reason, booked_at, cancelled_at`

func bookingDest(b *entity.Booking) []any {
	return []any{
		&b.ID,
		&b.VenueID,
		&b.CustomerID,
		&b.BookingCode,
		&b.BookingDate,
		&b.EndsAt,
		&b.DurationType,
		&b.DurationHours,
		&b.DurationDays,
		&b.TotalPrice,
		&b.PaidAmount,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	}
}

func scanBookingWithVenue(row pgx.Row) (*entity.BookingWithVenue, error) {
	var bw entity.BookingWithVenue
	dest := append(bookingDest(&bw.Booking), &bw.VenueName, &bw.VenueOwnerID, &bw.CustomerName, &bw.CustomerEmail)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &bw, nil
}

func scanCancelled(row pgx.Row) (*entity.CancelledBooking, error) {
	var c entity.CancelledBooking
	err := row.Scan(
		&c.ID,
		&c.BookingID,
		&c.VenueID,
		&c.CustomerID,
		&c.BookingCode,
		&c.BookingDate,
		&c.EndsAt,
		&c.DurationType,
		&c.DurationHours,
		&c.DurationDays,
		&c.TotalPrice,
		&c.PaidAmount,
		&c.Status,
		&c.CancelReason,
		&c.BookedAt,
		&c.CancelledAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *bookingRepository) CreateIfAvailable(ctx context.Context, booking *entity.Booking) error {
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		// Serializes inserts per venue for the rest of the transaction.
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, booking.VenueID.String()); err != nil {
			return fmt.Errorf("lock venue %s: %w", booking.VenueID, err)
		}

		occupied, err := queryActiveOverlapping(ctx, tx, booking.VenueID, booking.Interval())
		if err != nil {
			return err
		}
		if !availability.Free(booking.Interval(), occupied) {
			return apperror.ErrSlotUnavailable
		}

		// UpsertAndReprice takes the same venue lock, so this price is the one
		// a later re-pricing starts from
		var price decimal.Decimal
		err = tx.QueryRow(ctx,
			`SELECT price FROM venue_pricing WHERE venue_id = $1 AND duration_type = $2 FOR SHARE`,
			booking.VenueID, booking.DurationType,
		).Scan(&price)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.ErrPricingNotFound
		}
		if err != nil {
			return fmt.Errorf("read price for venue %s: %w", booking.VenueID, err)
		}
		total := pricing.Total(booking.DurationType, price, booking.DurationHours, booking.DurationDays)
		if pricing.ValidateAmount(total) != nil {
			return apperror.ErrTotalOutOfRange
		}
		booking.TotalPrice = total

		query := `
			INSERT INTO bookings (id, venue_id, customer_id, booking_code, booking_date, ends_at,
			                      duration_type, duration_hours, duration_days, total_price,
			                      paid_amount, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`
		_, err = tx.Exec(ctx, query,
			booking.ID,
			booking.VenueID,
			booking.CustomerID,
			booking.BookingCode,
			booking.BookingDate,
			booking.EndsAt,
			booking.DurationType,
			booking.DurationHours,
			booking.DurationDays,
			booking.TotalPrice,
			booking.PaidAmount,
			booking.Status,
			booking.CreatedAt,
			booking.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert booking %s: %w", booking.ID, err)
		}
		return nil
	})

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	if database.PgErrorCode(err) == database.CodeExclusionViolation {
		return apperror.ErrSlotUnavailable.Wrap(err)
	}
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("venue_id", booking.VenueID.String()),
			zap.String("customer_id", booking.CustomerID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID, err)
	}

	return nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func queryActiveOverlapping(ctx context.Context, q querier, venueID uuid.UUID, slot availability.Interval) ([]availability.Interval, error) {
	query := `
		SELECT booking_date, ends_at
		FROM bookings
		WHERE venue_id = $1
		  AND status IN ('pending', 'approved')
		  AND booking_date < $3
		  AND ends_at > $2
	`

	rows, err := q.Query(ctx, query, venueID, slot.Start, slot.End)
	if err != nil {
		return nil, fmt.Errorf("find overlapping bookings for venue %s: %w", venueID, err)
	}
	defer rows.Close()

	var out []availability.Interval
	for rows.Next() {
		var iv availability.Interval
		if err := rows.Scan(&iv.Start, &iv.End); err != nil {
			return nil, fmt.Errorf("scan booking interval: %w", err)
		}
		out = append(out, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking intervals: %w", err)
	}

	return out, nil
}

func (r *bookingRepository) FindActiveOverlapping(ctx context.Context, venueID uuid.UUID, slot availability.Interval) ([]availability.Interval, error) {
	out, err := queryActiveOverlapping(ctx, r.db, venueID, slot)
	if err != nil {
		r.log.Error("Failed to find overlapping bookings",
			zap.Error(err),
			zap.String("venue_id", venueID.String()),
			zap.Time("start", slot.Start),
			zap.Time("end", slot.End),
		)
		return nil, err
	}
	return out, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.BookingWithVenue, error) {
	query := bookingWithVenueSelect + ` WHERE b.id = $1`

	booking, err := scanBookingWithVenue(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id, err)
	}

	return booking, nil
}

func (r *bookingRepository) collect(rows pgx.Rows) ([]*entity.BookingWithVenue, error) {
	defer rows.Close()

	var bookings []*entity.BookingWithVenue
	for rows.Next() {
		booking, err := scanBookingWithVenue(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*entity.BookingWithVenue, error) {
	query := bookingWithVenueSelect + `
		WHERE b.customer_id = $1
		ORDER BY b.booking_date DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, customerID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by customer",
			zap.Error(err),
			zap.String("customer_id", customerID.String()),
		)
		return nil, fmt.Errorf("find bookings by customer %s: %w", customerID, err)
	}

	return r.collect(rows)
}

func (r *bookingRepository) CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE customer_id = $1`, customerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count bookings by customer %s: %w", customerID, err)
	}
	return count, nil
}

func (r *bookingRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, status *entity.BookingStatus, limit, offset int) ([]*entity.BookingWithVenue, error) {
	query := bookingWithVenueSelect + `
		WHERE v.owner_id = $1
		  AND ($2::text IS NULL OR b.status = $2)
		ORDER BY b.created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, ownerID, statusArg(status), limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by owner",
			zap.Error(err),
			zap.String("owner_id", ownerID.String()),
		)
		return nil, fmt.Errorf("find bookings by owner %s: %w", ownerID, err)
	}

	return r.collect(rows)
}

func (r *bookingRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID, status *entity.BookingStatus) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings b
		JOIN venues v ON v.id = b.venue_id
		WHERE v.owner_id = $1
		  AND ($2::text IS NULL OR b.status = $2)
	`

	var count int64
	if err := r.db.QueryRow(ctx, query, ownerID, statusArg(status)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count bookings by owner %s: %w", ownerID, err)
	}
	return count, nil
}

func statusArg(status *entity.BookingStatus) *string {
	if status == nil {
		return nil
	}
	s := string(*status)
	return &s
}

func (r *bookingRepository) UpdateStatusByOwner(ctx context.Context, bookingID, ownerID uuid.UUID, status entity.BookingStatus) (bool, error) {
	query := `
		UPDATE bookings b
		SET status = $3, updated_at = NOW()
		FROM venues v
		WHERE b.id = $1
		  AND b.venue_id = v.id
		  AND v.owner_id = $2
		  AND b.status = 'pending'
	`

	result, err := r.db.Exec(ctx, query, bookingID, ownerID, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("status", string(status)),
		)
		return false, fmt.Errorf("update booking status %s: %w", bookingID, err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *bookingRepository) Cancel(ctx context.Context, bookingID, customerID uuid.UUID, reason string) (*entity.CancelledBooking, error) {
	query := `
		WITH moved AS (
			DELETE FROM bookings
			WHERE id = $1 AND customer_id = $2 AND status = 'pending'
			RETURNING id, venue_id, customer_id, booking_code, booking_date, ends_at,
			          duration_type, duration_hours, duration_days, total_price,
			          paid_amount, created_at
		)
		INSERT INTO cancelled_bookings (id, booking_id, venue_id, customer_id, booking_code,
		                                booking_date, ends_at, duration_type, duration_hours,
		                                duration_days, total_price, paid_amount, status,
		                                cancel_reason, booked_at, cancelled_at)
		SELECT $3, id, venue_id, customer_id, booking_code, booking_date, ends_at,
		       duration_type, duration_hours, duration_days, total_price, paid_amount,
		       'cancelled', $4, created_at, NOW()
		FROM moved
		RETURNING ` + cancelledColumns

	var record *entity.CancelledBooking
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		c, err := scanCancelled(tx.QueryRow(ctx, query, bookingID, customerID, uuid.New(), reason))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		record = c
		return nil
	})
	if err != nil {
		r.log.Error("Failed to cancel booking",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("customer_id", customerID.String()),
		)
		return nil, fmt.Errorf("cancel booking %s: %w", bookingID, err)
	}

	return record, nil
}

func (r *bookingRepository) FindCancelledByID(ctx context.Context, id uuid.UUID) (*entity.CancelledBooking, error) {
	query := `SELECT ` + cancelledColumns + ` FROM cancelled_bookings WHERE id = $1`

	record, err := scanCancelled(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find cancelled booking",
			zap.Error(err),
			zap.String("cancelled_id", id.String()),
		)
		return nil, fmt.Errorf("find cancelled booking %s: %w", id, err)
	}

	return record, nil
}

func (r *bookingRepository) FindCancelledByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.CancelledBooking, error) {
	query := `
		SELECT ` + cancelledColumns + `
		FROM cancelled_bookings
		WHERE customer_id = $1
		ORDER BY cancelled_at DESC
	`

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		r.log.Error("Failed to find cancelled bookings",
			zap.Error(err),
			zap.String("customer_id", customerID.String()),
		)
		return nil, fmt.Errorf("find cancelled bookings by customer %s: %w", customerID, err)
	}
	defer rows.Close()

	var records []*entity.CancelledBooking
	for rows.Next() {
		c, err := scanCancelled(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cancelled booking row: %w", err)
		}
		records = append(records, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cancelled booking rows: %w", err)
	}

	return records, nil
}

func (r *bookingRepository) FindApprovedWithDueBetween(ctx context.Context, from, to time.Time) ([]*entity.BookingWithVenue, error) {
	query := bookingWithVenueSelect + `
		WHERE b.status = 'approved'
		  AND b.paid_amount < b.total_price
		  AND b.booking_date >= $1
		  AND b.booking_date < $2
		ORDER BY b.booking_date
	`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		r.log.Error("Failed to find bookings with due payments", zap.Error(err))
		return nil, fmt.Errorf("find approved bookings with due between %s and %s: %w",
			from.Format(time.RFC3339), to.Format(time.RFC3339), err)
	}

	return r.collect(rows)
}
