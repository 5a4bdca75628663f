package repository

import (
	"context"
	"fmt"

	"venue-booking/internal/data/entity"
	"venue-booking/pkg/database"

	"go.uber.org/zap"
)

type StatsRepository interface {
	AdminStats(ctx context.Context) (*entity.AdminStats, error)
}

type statsRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewStatsRepository(db database.PgxIface, log *zap.Logger) StatsRepository {
	return &statsRepository{
		db:  db,
		log: log.With(zap.String("repository", "stats")),
	}
}

func (r *statsRepository) AdminStats(ctx context.Context) (*entity.AdminStats, error) {
	stats := &entity.AdminStats{
		BookingsByStatus: make(map[entity.BookingStatus]int64),
	}

	totals := `
		SELECT
			(SELECT COUNT(*) FROM venues),
			(SELECT COUNT(*) FROM users WHERE deleted_at IS NULL),
			(SELECT COUNT(*) FROM cancelled_bookings),
			(SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'success'),
			(SELECT COALESCE(SUM(refund_amount), 0) FROM refunds)
	`
	err := r.db.QueryRow(ctx, totals).Scan(
		&stats.Venues,
		&stats.Users,
		&stats.CancelledBookings,
		&stats.TotalPaid,
		&stats.TotalRefunded,
	)
	if err != nil {
		r.log.Error("Failed to load admin totals", zap.Error(err))
		return nil, fmt.Errorf("load admin totals: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err != nil {
		r.log.Error("Failed to count bookings by status", zap.Error(err))
		return nil, fmt.Errorf("count bookings by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status entity.BookingStatus
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan booking status count: %w", err)
		}
		stats.BookingsByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking status counts: %w", err)
	}
	stats.BookingsByStatus[entity.BookingStatusCancelled] = stats.CancelledBookings

	return stats, nil
}
