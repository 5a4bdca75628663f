package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/pricing"
	"venue-booking/pkg/apperror"
	"venue-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RepriceResult counts the pending bookings touched by a price change.
type RepriceResult struct {
	Repriced int
	Skipped  int
}

type PricingRepository interface {
	FindByVenueAndType(ctx context.Context, venueID uuid.UUID, durationType pricing.DurationType) (*entity.PricingRule, error)
	FindByVenue(ctx context.Context, venueID uuid.UUID) ([]*entity.PricingRule, error)

	// UpsertAndReprice stores rule and, in the same transaction, recomputes the
	// total of every pending booking of that venue and type starting after now.
	// Bookings already paid beyond the new total keep their stored price. It
	// holds the venue lock CreateIfAvailable takes, so no booking is inserted
	// at the old price after the re-pricing ran.
	UpsertAndReprice(ctx context.Context, rule *entity.PricingRule, now time.Time) (RepriceResult, error)
}

type pricingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPricingRepository(db database.PgxIface, log *zap.Logger) PricingRepository {
	return &pricingRepository{
		db:  db,
		log: log.With(zap.String("repository", "pricing")),
	}
}

func (r *pricingRepository) FindByVenueAndType(ctx context.Context, venueID uuid.UUID, durationType pricing.DurationType) (*entity.PricingRule, error) {
	query := `
		SELECT venue_id, duration_type, price, updated_at
		FROM venue_pricing
		WHERE venue_id = $1 AND duration_type = $2
	`

	var rule entity.PricingRule
	err := r.db.QueryRow(ctx, query, venueID, durationType).Scan(
		&rule.VenueID,
		&rule.DurationType,
		&rule.Price,
		&rule.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find pricing rule",
			zap.Error(err),
			zap.String("venue_id", venueID.String()),
			zap.Stringer("duration_type", durationType),
		)
		return nil, fmt.Errorf("find pricing %s/%s: %w", venueID, durationType, err)
	}

	return &rule, nil
}

func (r *pricingRepository) FindByVenue(ctx context.Context, venueID uuid.UUID) ([]*entity.PricingRule, error) {
	query := `
		SELECT venue_id, duration_type, price, updated_at
		FROM venue_pricing
		WHERE venue_id = $1
		ORDER BY duration_type
	`

	rows, err := r.db.Query(ctx, query, venueID)
	if err != nil {
		r.log.Error("Failed to list pricing rules", zap.Error(err), zap.String("venue_id", venueID.String()))
		return nil, fmt.Errorf("find pricing by venue %s: %w", venueID, err)
	}
	defer rows.Close()

	var rules []*entity.PricingRule
	for rows.Next() {
		var rule entity.PricingRule
		if err := rows.Scan(&rule.VenueID, &rule.DurationType, &rule.Price, &rule.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan pricing row: %w", err)
		}
		rules = append(rules, &rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pricing rows: %w", err)
	}

	return rules, nil
}

type pendingBooking struct {
	id    uuid.UUID
	hours int
	days  int
	paid  decimal.Decimal
}

func (r *pricingRepository) UpsertAndReprice(ctx context.Context, rule *entity.PricingRule, now time.Time) (RepriceResult, error) {
	var result RepriceResult

	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, rule.VenueID.String()); err != nil {
			return fmt.Errorf("lock venue %s: %w", rule.VenueID, err)
		}

		upsert := `
			INSERT INTO venue_pricing (venue_id, duration_type, price, updated_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (venue_id, duration_type)
			DO UPDATE SET price = EXCLUDED.price, updated_at = EXCLUDED.updated_at
		`
		if _, err := tx.Exec(ctx, upsert, rule.VenueID, rule.DurationType, rule.Price, rule.UpdatedAt); err != nil {
			return fmt.Errorf("upsert pricing: %w", err)
		}

		selectPending := `
			SELECT id, duration_hours, duration_days, paid_amount
			FROM bookings
			WHERE venue_id = $1
			  AND duration_type = $2
			  AND status = 'pending'
			  AND booking_date > $3
			FOR UPDATE
		`
		rows, err := tx.Query(ctx, selectPending, rule.VenueID, rule.DurationType, now)
		if err != nil {
			return fmt.Errorf("select pending bookings: %w", err)
		}

		var pending []pendingBooking
		for rows.Next() {
			var p pendingBooking
			if err := rows.Scan(&p.id, &p.hours, &p.days, &p.paid); err != nil {
				rows.Close()
				return fmt.Errorf("scan pending booking: %w", err)
			}
			pending = append(pending, p)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate pending bookings: %w", err)
		}

		for _, p := range pending {
			total := pricing.Total(rule.DurationType, rule.Price, p.hours, p.days)
			if total.LessThan(p.paid) {
				result.Skipped++
				continue
			}
			if pricing.ValidateAmount(total) != nil {
				return apperror.ErrTotalOutOfRange
			}
			if _, err := tx.Exec(ctx,
				`UPDATE bookings SET total_price = $2, updated_at = $3 WHERE id = $1`,
				p.id, total, now,
			); err != nil {
				return fmt.Errorf("reprice booking %s: %w", p.id, err)
			}
			result.Repriced++
		}
		return nil
	})

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return RepriceResult{}, err
	}
	if err != nil {
		r.log.Error("Failed to set price",
			zap.Error(err),
			zap.String("venue_id", rule.VenueID.String()),
			zap.Stringer("duration_type", rule.DurationType),
		)
		return RepriceResult{}, fmt.Errorf("set price %s/%s: %w", rule.VenueID, rule.DurationType, err)
	}

	return result, nil
}
