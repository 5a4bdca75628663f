package response

import (
	"time"

	"venue-booking/internal/data/entity"

	"github.com/shopspring/decimal"
)

type PricingResponse struct {
	VenueID      string          `json:"venue_id"`
	DurationType int             `json:"duration_type"`
	DurationName string          `json:"duration_name"`
	Price        decimal.Decimal `json:"price"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func PricingToResponse(rule *entity.PricingRule) PricingResponse {
	return PricingResponse{
		VenueID:      rule.VenueID.String(),
		DurationType: int(rule.DurationType),
		DurationName: rule.DurationType.String(),
		Price:        rule.Price,
		UpdatedAt:    rule.UpdatedAt,
	}
}

type SetPriceResponse struct {
	PricingResponse
	RepricedBookings int `json:"repriced_bookings"`
	SkippedBookings  int `json:"skipped_bookings"`
}

type SlotResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type AvailabilityResponse struct {
	VenueID   string         `json:"venue_id"`
	Start     time.Time      `json:"start"`
	End       time.Time      `json:"end"`
	Available bool           `json:"available"`
	Conflicts []SlotResponse `json:"conflicts"`
}
