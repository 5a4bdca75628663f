package repository

import (
	"context"
	"testing"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func rejectedRefund(amount int64) *entity.Refund {
	return &entity.Refund{
		BaseSimple:   entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		BookingID:    uuid.New(),
		VenueID:      uuid.New(),
		RefundAmount: decimal.NewFromInt(amount),
		RefundedBy:   uuid.New(),
		Status:       entity.RefundStatusCompleted,
	}
}

func TestRefundRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("refunds a rejected booking once", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewRefundRepository(mock, zap.NewNop())
		rf := rejectedRefund(500)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT paid_amount, status FROM bookings").
			WithArgs(rf.BookingID).
			WillReturnRows(pgxmock.NewRows([]string{"paid_amount", "status"}).
				AddRow(decimal.NewFromInt(500), entity.BookingStatusRejected))
		mock.ExpectQuery("FROM refunds WHERE booking_id").
			WithArgs(rf.BookingID).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("INSERT INTO refunds").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Create(ctx, rf))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate refund is rejected inside the transaction", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewRefundRepository(mock, zap.NewNop())
		rf := rejectedRefund(500)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT paid_amount, status FROM bookings").
			WillReturnRows(pgxmock.NewRows([]string{"paid_amount", "status"}).
				AddRow(decimal.NewFromInt(500), entity.BookingStatusRejected))
		mock.ExpectQuery("FROM refunds WHERE booking_id").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.Create(ctx, rf), apperror.ErrDuplicateRefund)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique index backs up the duplicate check", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewRefundRepository(mock, zap.NewNop())
		rf := rejectedRefund(500)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT paid_amount, status FROM bookings").
			WillReturnRows(pgxmock.NewRows([]string{"paid_amount", "status"}).
				AddRow(decimal.NewFromInt(500), entity.BookingStatusRejected))
		mock.ExpectQuery("FROM refunds WHERE booking_id").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("INSERT INTO refunds").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_refunds_booking"})
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.Create(ctx, rf), apperror.ErrDuplicateRefund)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("pending booking is not a refund source", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewRefundRepository(mock, zap.NewNop())
		rf := rejectedRefund(500)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT paid_amount, status FROM bookings").
			WillReturnRows(pgxmock.NewRows([]string{"paid_amount", "status"}).
				AddRow(decimal.NewFromInt(500), entity.BookingStatusPending))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.Create(ctx, rf), apperror.ErrRefundNotAllowed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing cancelled record", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewRefundRepository(mock, zap.NewNop())
		rf := rejectedRefund(500)
		cancelledID := uuid.New()
		rf.CancelledBookingID = &cancelledID

		mock.ExpectBegin()
		mock.ExpectQuery("FROM cancelled_bookings").
			WithArgs(cancelledID).
			WillReturnRows(pgxmock.NewRows([]string{"paid_amount"}))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.Create(ctx, rf), apperror.ErrRefundNotAllowed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRefundRepository_FindCancelledCandidates(t *testing.T) {
	ctx := context.Background()
	cancelledID, bookingID := uuid.New(), uuid.New()
	cancelledAt := time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC)

	cancelledRows := func() *pgxmock.Rows {
		return pgxmock.NewRows([]string{
			"id", "booking_id", "booking_code", "paid_amount", "total_price", "cancel_reason",
			"cancelled_at", "customer_id", "customer_name", "venue_id", "venue_name", "refunded",
		}).AddRow(cancelledID, bookingID, "BK-1", decimal.NewFromInt(500), decimal.NewFromInt(1500),
			"Plans changed", cancelledAt, uuid.New(), "Dewi", uuid.New(), "Grand Hall", false)
	}

	t.Run("scoped to an owner and excluding refunded rows", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewRefundRepository(mock, zap.NewNop())
		ownerID := uuid.New()
		owner := ownerID.String()

		mock.ExpectQuery("FROM cancelled_bookings").
			WithArgs(&owner, true).
			WillReturnRows(cancelledRows())

		got, err := repo.FindCancelledCandidates(ctx, entity.RefundCandidateFilter{OwnerID: &ownerID, ExcludeRefunded: true})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, entity.RefundSourceCancelled, got[0].Source)
		require.NotNil(t, got[0].CancelledID)
		assert.Equal(t, cancelledID, *got[0].CancelledID)
		assert.Equal(t, bookingID, got[0].BookingID)
		assert.Equal(t, "Plans changed", got[0].Reason)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("every venue including refunded rows", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewRefundRepository(mock, zap.NewNop())

		mock.ExpectQuery("FROM cancelled_bookings").
			WithArgs((*string)(nil), false).
			WillReturnRows(cancelledRows())

		got, err := repo.FindCancelledCandidates(ctx, entity.RefundCandidateFilter{})
		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRefundRepository_FindRejectedCandidates(t *testing.T) {
	ctx := context.Background()
	mock := newMockPool(t)
	repo := NewRefundRepository(mock, zap.NewNop())
	ownerID, bookingID := uuid.New(), uuid.New()
	owner := ownerID.String()

	mock.ExpectQuery("status = 'rejected'").
		WithArgs(&owner, false).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "booking_code", "paid_amount", "total_price", "updated_at",
			"customer_id", "customer_name", "venue_id", "venue_name", "refunded",
		}).AddRow(bookingID, "BK-2", decimal.NewFromInt(900), decimal.NewFromInt(900),
			time.Date(2025, 1, 3, 8, 0, 0, 0, time.UTC), uuid.New(), "Dewi", uuid.New(), "Grand Hall", true))

	got, err := repo.FindRejectedCandidates(ctx, entity.RefundCandidateFilter{OwnerID: &ownerID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, entity.RefundSourceRejected, got[0].Source)
	assert.Nil(t, got[0].CancelledID)
	assert.Equal(t, "Rejected by venue owner", got[0].Reason)
	assert.True(t, got[0].Refunded)
	assert.NoError(t, mock.ExpectationsWereMet())
}
