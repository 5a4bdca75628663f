package request

import (
	"time"

	"venue-booking/internal/pricing"
)

type CreateBookingRequest struct {
	VenueID       string               `json:"venue_id" validate:"required,uuid"`
	BookingDate   time.Time            `json:"booking_date" validate:"required"`
	DurationType  pricing.DurationType `json:"duration_type"`
	DurationHours int                  `json:"duration_hours" validate:"min=0,max=8784"`
	DurationDays  int                  `json:"duration_days" validate:"min=0,max=366"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

type CancelBookingRequest struct {
	CancelReason string `json:"cancel_reason" validate:"required,max=500"`
}

type OwnerBookingsRequest struct {
	PaginatedRequest
	Status string `json:"status" validate:"omitempty,oneof=pending approved rejected"`
}
