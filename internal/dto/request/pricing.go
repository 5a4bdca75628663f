package request

import (
	"time"

	"venue-booking/internal/pricing"

	"github.com/shopspring/decimal"
)

// SetPriceRequest accepts duration_type as 0/1/2 or per_hour/per_day/per_event.
type SetPriceRequest struct {
	DurationType pricing.DurationType `json:"duration_type"`
	Price        decimal.Decimal      `json:"price"`
}

type AvailabilityRequest struct {
	Start         time.Time            `json:"start" validate:"required"`
	DurationType  pricing.DurationType `json:"duration_type"`
	DurationHours int                  `json:"duration_hours" validate:"min=0,max=8784"`
	DurationDays  int                  `json:"duration_days" validate:"min=0,max=366"`
}
