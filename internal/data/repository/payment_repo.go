package repository

import (
	"context"
	"errors"
	"fmt"

	"venue-booking/internal/data/entity"
	"venue-booking/pkg/apperror"
	"venue-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type PaymentRepository interface {
	// Record locks the booking row, rejects overpayment, appends the payment
	// and bumps paid_amount in one transaction. It returns the new paid amount.
	Record(ctx context.Context, payment *entity.Payment) (decimal.Decimal, error)
	FindByBooking(ctx context.Context, bookingID uuid.UUID) ([]*entity.Payment, error)
	// SuccessfulBookings returns the subset of bookingIDs with a success payment.
	SuccessfulBookings(ctx context.Context, bookingIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type paymentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPaymentRepository(db database.PgxIface, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

func (r *paymentRepository) Record(ctx context.Context, payment *entity.Payment) (decimal.Decimal, error) {
	var paid decimal.Decimal

	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var (
			total  decimal.Decimal
			status entity.BookingStatus
		)
		err := tx.QueryRow(ctx,
			`SELECT total_price, paid_amount, status FROM bookings WHERE id = $1 FOR UPDATE`,
			payment.BookingID,
		).Scan(&total, &paid, &status)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.ErrBookingNotFound
		}
		if err != nil {
			return fmt.Errorf("lock booking: %w", err)
		}

		if status == entity.BookingStatusRejected {
			return apperror.ErrInvalidTransition.With("rejected bookings cannot be paid")
		}
		if paid.Add(payment.Amount).GreaterThan(total) {
			return apperror.ErrOverpaymentRejected
		}

		insert := `
			INSERT INTO payments (id, booking_id, venue_id, amount, method, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		if _, err := tx.Exec(ctx, insert,
			payment.ID,
			payment.BookingID,
			payment.VenueID,
			payment.Amount,
			payment.Method,
			payment.Status,
			payment.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}

		err = tx.QueryRow(ctx,
			`UPDATE bookings SET paid_amount = paid_amount + $2, updated_at = NOW() WHERE id = $1 RETURNING paid_amount`,
			payment.BookingID, payment.Amount,
		).Scan(&paid)
		if err != nil {
			return fmt.Errorf("update paid amount: %w", err)
		}
		return nil
	})

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return decimal.Zero, err
	}
	if database.PgErrorCode(err) == database.CodeCheckViolation {
		return decimal.Zero, apperror.ErrOverpaymentRejected.Wrap(err)
	}
	if err != nil {
		r.log.Error("Failed to record payment",
			zap.Error(err),
			zap.String("booking_id", payment.BookingID.String()),
			zap.String("amount", payment.Amount.String()),
		)
		return decimal.Zero, fmt.Errorf("record payment for booking %s: %w", payment.BookingID, err)
	}

	return paid, nil
}

func (r *paymentRepository) FindByBooking(ctx context.Context, bookingID uuid.UUID) ([]*entity.Payment, error) {
	query := `
		SELECT id, booking_id, venue_id, amount, method, status, created_at
		FROM payments
		WHERE booking_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find payments", zap.Error(err), zap.String("booking_id", bookingID.String()))
		return nil, fmt.Errorf("find payments by booking %s: %w", bookingID, err)
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.BookingID, &p.VenueID, &p.Amount, &p.Method, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment rows: %w", err)
	}

	return payments, nil
}

func (r *paymentRepository) SuccessfulBookings(ctx context.Context, bookingIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool, len(bookingIDs))
	if len(bookingIDs) == 0 {
		return out, nil
	}

	ids := make([]string, len(bookingIDs))
	for i, id := range bookingIDs {
		ids[i] = id.String()
	}

	query := `
		SELECT DISTINCT booking_id
		FROM payments
		WHERE booking_id = ANY($1::uuid[]) AND status = 'success'
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to check successful payments", zap.Error(err), zap.Int("bookings", len(ids)))
		return nil, fmt.Errorf("find successful payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan payment booking id: %w", err)
		}
		out[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment booking ids: %w", err)
	}

	return out, nil
}
