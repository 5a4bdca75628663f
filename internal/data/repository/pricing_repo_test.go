package repository

import (
	"context"
	"testing"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/pricing"
	"venue-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPricingRepository_UpsertAndReprice(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPricingRepository(mock, zap.NewNop())

	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	rule := &entity.PricingRule{
		VenueID:      uuid.New(),
		DurationType: pricing.PerHour,
		Price:        decimal.NewFromInt(600),
		UpdatedAt:    now,
	}
	cheapPaid, overPaid := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WithArgs(rule.VenueID.String()).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectExec("INSERT INTO venue_pricing").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(rule.VenueID, rule.DurationType, now).
		WillReturnRows(pgxmock.NewRows([]string{"id", "duration_hours", "duration_days", "paid_amount"}).
			AddRow(cheapPaid, 3, 0, decimal.Zero).
			AddRow(overPaid, 3, 0, decimal.NewFromInt(2000)))
	mock.ExpectExec("UPDATE bookings SET total_price").
		WithArgs(cheapPaid, pgxmock.AnyArg(), now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	result, err := repo.UpsertAndReprice(context.Background(), rule, now)
	require.NoError(t, err)
	assert.Equal(t, RepriceResult{Repriced: 1, Skipped: 1}, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPricingRepository_UpsertAndReprice_TotalOutOfRange(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPricingRepository(mock, zap.NewNop())

	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	rule := &entity.PricingRule{
		VenueID:      uuid.New(),
		DurationType: pricing.PerHour,
		Price:        decimal.NewFromInt(5_000_000),
		UpdatedAt:    now,
	}

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectExec("INSERT INTO venue_pricing").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("FOR UPDATE").
		WillReturnRows(pgxmock.NewRows([]string{"id", "duration_hours", "duration_days", "paid_amount"}).
			AddRow(uuid.New(), pricing.MaxHours, 0, decimal.Zero))
	mock.ExpectRollback()

	_, err := repo.UpsertAndReprice(context.Background(), rule, now)
	assert.ErrorIs(t, err, apperror.ErrTotalOutOfRange)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPricingRepository_FindByVenueAndType_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPricingRepository(mock, zap.NewNop())
	venueID := uuid.New()

	mock.ExpectQuery("FROM venue_pricing").
		WithArgs(venueID, pricing.PerDay).
		WillReturnRows(pgxmock.NewRows([]string{"venue_id", "duration_type", "price", "updated_at"}))

	rule, err := repo.FindByVenueAndType(context.Background(), venueID, pricing.PerDay)
	require.NoError(t, err)
	assert.Nil(t, rule)
	assert.NoError(t, mock.ExpectationsWereMet())
}
