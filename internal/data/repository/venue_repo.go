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
	"go.uber.org/zap"
)

type VenueRepository interface {
	Create(ctx context.Context, venue *entity.Venue) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Venue, error)
	FindAll(ctx context.Context, city string, limit, offset int) ([]*entity.Venue, error)
	CountAll(ctx context.Context, city string) (int64, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Venue, error)
	Update(ctx context.Context, venue *entity.Venue) error
	// Delete refuses venues that still have bookings, live or archived.
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

type venueRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewVenueRepository(db database.PgxIface, log *zap.Logger) VenueRepository {
	return &venueRepository{
		db:  db,
		log: log.With(zap.String("repository", "venue")),
	}
}

const venueColumns = `id, owner_id, name, description, address, city, capacity, created_at, updated_at`

func scanVenue(row pgx.Row) (*entity.Venue, error) {
	var v entity.Venue
	err := row.Scan(
		&v.ID,
		&v.OwnerID,
		&v.Name,
		&v.Description,
		&v.Address,
		&v.City,
		&v.Capacity,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *venueRepository) Create(ctx context.Context, venue *entity.Venue) error {
	query := `
		INSERT INTO venues (` + venueColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		venue.ID,
		venue.OwnerID,
		venue.Name,
		venue.Description,
		venue.Address,
		venue.City,
		venue.Capacity,
		venue.CreatedAt,
		venue.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create venue",
			zap.Error(err),
			zap.String("owner_id", venue.OwnerID.String()),
			zap.String("name", venue.Name),
		)
		return fmt.Errorf("create venue %s: %w", venue.Name, err)
	}

	return nil
}

func (r *venueRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues WHERE id = $1`

	venue, err := scanVenue(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find venue by ID", zap.Error(err), zap.String("venue_id", id.String()))
		return nil, fmt.Errorf("find venue by ID %s: %w", id, err)
	}

	return venue, nil
}

func (r *venueRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Venue, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var venues []*entity.Venue
	for rows.Next() {
		venue, err := scanVenue(rows)
		if err != nil {
			return nil, fmt.Errorf("scan venue row: %w", err)
		}
		venues = append(venues, venue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate venue rows: %w", err)
	}

	return venues, nil
}

func (r *venueRepository) FindAll(ctx context.Context, city string, limit, offset int) ([]*entity.Venue, error) {
	query := `
		SELECT ` + venueColumns + `
		FROM venues
		WHERE ($1 = '' OR LOWER(city) = LOWER($1))
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	venues, err := r.list(ctx, query, city, limit, offset)
	if err != nil {
		r.log.Error("Failed to list venues",
			zap.Error(err),
			zap.String("city", city),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find venues limit %d offset %d: %w", limit, offset, err)
	}

	return venues, nil
}

func (r *venueRepository) CountAll(ctx context.Context, city string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM venues WHERE ($1 = '' OR LOWER(city) = LOWER($1))`,
		city,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count venues: %w", err)
	}
	return count, nil
}

func (r *venueRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues WHERE owner_id = $1 ORDER BY created_at DESC`

	venues, err := r.list(ctx, query, ownerID)
	if err != nil {
		r.log.Error("Failed to list owner venues", zap.Error(err), zap.String("owner_id", ownerID.String()))
		return nil, fmt.Errorf("find venues by owner %s: %w", ownerID, err)
	}

	return venues, nil
}

func (r *venueRepository) Update(ctx context.Context, venue *entity.Venue) error {
	query := `
		UPDATE venues
		SET name = $3, description = $4, address = $5, city = $6, capacity = $7, updated_at = $8
		WHERE id = $1 AND owner_id = $2
	`

	result, err := r.db.Exec(ctx, query,
		venue.ID,
		venue.OwnerID,
		venue.Name,
		venue.Description,
		venue.Address,
		venue.City,
		venue.Capacity,
		venue.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update venue", zap.Error(err), zap.String("venue_id", venue.ID.String()))
		return fmt.Errorf("update venue %s: %w", venue.ID, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.ErrVenueNotFound
	}

	return nil
}

func (r *venueRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var owner uuid.UUID
		err := tx.QueryRow(ctx, `SELECT owner_id FROM venues WHERE id = $1 FOR UPDATE`, id).Scan(&owner)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.ErrVenueNotFound
		}
		if err != nil {
			return fmt.Errorf("lock venue: %w", err)
		}
		if owner != ownerID {
			return apperror.ErrUnauthorized
		}

		var inUse bool
		err = tx.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM bookings WHERE venue_id = $1)
			    OR EXISTS (SELECT 1 FROM cancelled_bookings WHERE venue_id = $1)
		`, id).Scan(&inUse)
		if err != nil {
			return fmt.Errorf("check venue bookings: %w", err)
		}
		if inUse {
			return apperror.ErrVenueHasBookings
		}

		// venue_pricing rows go with the venue through ON DELETE CASCADE
		if _, err := tx.Exec(ctx, `DELETE FROM venues WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete venue: %w", err)
		}
		return nil
	})

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	if database.PgErrorCode(err) == database.CodeForeignKeyViolation {
		return apperror.ErrVenueHasBookings.Wrap(err)
	}
	if err != nil {
		r.log.Error("Failed to delete venue", zap.Error(err), zap.String("venue_id", id.String()))
		return fmt.Errorf("delete venue %s: %w", id, err)
	}

	r.log.Info("Venue deleted", zap.String("venue_id", id.String()))
	return nil
}
