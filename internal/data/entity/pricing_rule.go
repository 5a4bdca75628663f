package entity

import (
	"time"

	"venue-booking/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PricingRule struct {
	VenueID      uuid.UUID            `db:"venue_id"`
	DurationType pricing.DurationType `db:"duration_type"`
	Price        decimal.Decimal      `db:"price"`
	UpdatedAt    time.Time            `db:"updated_at"`
}
