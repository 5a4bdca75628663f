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

type RefundRepository interface {
	// Create locks the refund source, re-checks eligibility and duplicates,
	// and inserts the refund in one transaction. The source is the cancelled
	// record when refund.CancelledBookingID is set, otherwise the rejected
	// booking refund.BookingID.
	Create(ctx context.Context, refund *entity.Refund) error
	FindCancelledCandidates(ctx context.Context, filter entity.RefundCandidateFilter) ([]entity.RefundCandidate, error)
	FindRejectedCandidates(ctx context.Context, filter entity.RefundCandidateFilter) ([]entity.RefundCandidate, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Refund, error)
}

type refundRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRefundRepository(db database.PgxIface, log *zap.Logger) RefundRepository {
	return &refundRepository{
		db:  db,
		log: log.With(zap.String("repository", "refund")),
	}
}

func (r *refundRepository) Create(ctx context.Context, refund *entity.Refund) error {
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var (
			paid      decimal.Decimal
			duplicate bool
		)

		if refund.CancelledBookingID != nil {
			err := tx.QueryRow(ctx,
				`SELECT paid_amount FROM cancelled_bookings WHERE id = $1 FOR UPDATE`,
				*refund.CancelledBookingID,
			).Scan(&paid)
			if errors.Is(err, pgx.ErrNoRows) {
				return apperror.ErrRefundNotAllowed
			}
			if err != nil {
				return fmt.Errorf("lock cancelled booking: %w", err)
			}

			err = tx.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM refunds WHERE cancelled_booking_id = $1)`,
				*refund.CancelledBookingID,
			).Scan(&duplicate)
			if err != nil {
				return fmt.Errorf("check duplicate refund: %w", err)
			}
		} else {
			var status entity.BookingStatus
			err := tx.QueryRow(ctx,
				`SELECT paid_amount, status FROM bookings WHERE id = $1 FOR UPDATE`,
				refund.BookingID,
			).Scan(&paid, &status)
			if errors.Is(err, pgx.ErrNoRows) {
				return apperror.ErrRefundNotAllowed
			}
			if err != nil {
				return fmt.Errorf("lock booking: %w", err)
			}
			if status != entity.BookingStatusRejected {
				return apperror.ErrRefundNotAllowed
			}

			err = tx.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM refunds WHERE booking_id = $1 AND cancelled_booking_id IS NULL)`,
				refund.BookingID,
			).Scan(&duplicate)
			if err != nil {
				return fmt.Errorf("check duplicate refund: %w", err)
			}
		}

		if duplicate {
			return apperror.ErrDuplicateRefund
		}
		if !paid.IsPositive() {
			return apperror.ErrRefundNotAllowed
		}
		if refund.RefundAmount.GreaterThan(paid) {
			return apperror.InvalidInput("refund amount exceeds the paid amount")
		}

		insert := `
			INSERT INTO refunds (id, booking_id, cancelled_booking_id, venue_id, refund_amount,
			                     refunded_by, status, remarks, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`
		if _, err := tx.Exec(ctx, insert,
			refund.ID,
			refund.BookingID,
			refund.CancelledBookingID,
			refund.VenueID,
			refund.RefundAmount,
			refund.RefundedBy,
			refund.Status,
			refund.Remarks,
			refund.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert refund: %w", err)
		}
		return nil
	})

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	if database.PgErrorCode(err) == database.CodeUniqueViolation {
		return apperror.ErrDuplicateRefund.Wrap(err)
	}
	if err != nil {
		r.log.Error("Failed to create refund",
			zap.Error(err),
			zap.String("booking_id", refund.BookingID.String()),
		)
		return fmt.Errorf("create refund for booking %s: %w", refund.BookingID, err)
	}

	return nil
}

func (r *refundRepository) FindCancelledCandidates(ctx context.Context, filter entity.RefundCandidateFilter) ([]entity.RefundCandidate, error) {
	query := `
		SELECT c.id, c.booking_id, c.booking_code, c.paid_amount, c.total_price, c.cancel_reason,
		       c.cancelled_at, c.customer_id, u.name, c.venue_id, v.name,
		       EXISTS (SELECT 1 FROM refunds rf WHERE rf.cancelled_booking_id = c.id)
		FROM cancelled_bookings c
		JOIN venues v ON v.id = c.venue_id
		JOIN users u ON u.id = c.customer_id
		WHERE c.paid_amount > 0
		  AND ($1::uuid IS NULL OR v.owner_id = $1)
		  AND (NOT $2 OR NOT EXISTS (SELECT 1 FROM refunds rf WHERE rf.cancelled_booking_id = c.id))
	`

	rows, err := r.db.Query(ctx, query, ownerArg(filter.OwnerID), filter.ExcludeRefunded)
	if err != nil {
		r.log.Error("Failed to find cancelled refund candidates", zap.Error(err))
		return nil, fmt.Errorf("find cancelled refund candidates: %w", err)
	}
	defer rows.Close()

	var out []entity.RefundCandidate
	for rows.Next() {
		var (
			c           entity.RefundCandidate
			cancelledID uuid.UUID
		)
		err := rows.Scan(
			&cancelledID,
			&c.BookingID,
			&c.BookingCode,
			&c.PaidAmount,
			&c.TotalPrice,
			&c.Reason,
			&c.CreatedAt,
			&c.CustomerID,
			&c.CustomerName,
			&c.VenueID,
			&c.VenueName,
			&c.Refunded,
		)
		if err != nil {
			return nil, fmt.Errorf("scan cancelled refund candidate: %w", err)
		}
		c.Source = entity.RefundSourceCancelled
		c.CancelledID = &cancelledID
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cancelled refund candidates: %w", err)
	}

	return out, nil
}

func (r *refundRepository) FindRejectedCandidates(ctx context.Context, filter entity.RefundCandidateFilter) ([]entity.RefundCandidate, error) {
	query := `
		SELECT b.id, b.booking_code, b.paid_amount, b.total_price, b.updated_at,
		       b.customer_id, u.name, b.venue_id, v.name,
		       EXISTS (SELECT 1 FROM refunds rf WHERE rf.booking_id = b.id AND rf.cancelled_booking_id IS NULL)
		FROM bookings b
		JOIN venues v ON v.id = b.venue_id
		JOIN users u ON u.id = b.customer_id
		WHERE b.status = 'rejected'
		  AND b.paid_amount > 0
		  AND ($1::uuid IS NULL OR v.owner_id = $1)
		  AND (NOT $2 OR NOT EXISTS (
		      SELECT 1 FROM refunds rf WHERE rf.booking_id = b.id AND rf.cancelled_booking_id IS NULL))
	`

	rows, err := r.db.Query(ctx, query, ownerArg(filter.OwnerID), filter.ExcludeRefunded)
	if err != nil {
		r.log.Error("Failed to find rejected refund candidates", zap.Error(err))
		return nil, fmt.Errorf("find rejected refund candidates: %w", err)
	}
	defer rows.Close()

	var out []entity.RefundCandidate
	for rows.Next() {
		var c entity.RefundCandidate
		err := rows.Scan(
			&c.BookingID,
			&c.BookingCode,
			&c.PaidAmount,
			&c.TotalPrice,
			&c.CreatedAt,
			&c.CustomerID,
			&c.CustomerName,
			&c.VenueID,
			&c.VenueName,
			&c.Refunded,
		)
		if err != nil {
			return nil, fmt.Errorf("scan rejected refund candidate: %w", err)
		}
		c.Source = entity.RefundSourceRejected
		c.Reason = "Rejected by venue owner"
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rejected refund candidates: %w", err)
	}

	return out, nil
}

func ownerArg(ownerID *uuid.UUID) *string {
	if ownerID == nil {
		return nil
	}
	s := ownerID.String()
	return &s
}

func (r *refundRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Refund, error) {
	query := `
		SELECT rf.id, rf.booking_id, rf.cancelled_booking_id, rf.venue_id, rf.refund_amount,
		       rf.refunded_by, rf.status, rf.remarks, rf.created_at
		FROM refunds rf
		JOIN venues v ON v.id = rf.venue_id
		WHERE v.owner_id = $1
		ORDER BY rf.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		r.log.Error("Failed to find refunds by owner", zap.Error(err), zap.String("owner_id", ownerID.String()))
		return nil, fmt.Errorf("find refunds by owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	var refunds []*entity.Refund
	for rows.Next() {
		var rf entity.Refund
		err := rows.Scan(
			&rf.ID,
			&rf.BookingID,
			&rf.CancelledBookingID,
			&rf.VenueID,
			&rf.RefundAmount,
			&rf.RefundedBy,
			&rf.Status,
			&rf.Remarks,
			&rf.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan refund row: %w", err)
		}
		refunds = append(refunds, &rf)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate refund rows: %w", err)
	}

	return refunds, nil
}
