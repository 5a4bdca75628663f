package entity

import (
	"time"

	"venue-booking/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CancelledBooking is the archived copy of a booking the customer cancelled.
// BookingID keeps the original id so payments still resolve.
type CancelledBooking struct {
	ID            uuid.UUID            `db:"id"`
	BookingID     uuid.UUID            `db:"booking_id"`
	VenueID       uuid.UUID            `db:"venue_id"`
	CustomerID    uuid.UUID            `db:"customer_id"`
	BookingCode   string               `db:"booking_code"`
	BookingDate   time.Time            `db:"booking_date"`
	EndsAt        time.Time            `db:"ends_at"`
	DurationType  pricing.DurationType `db:"duration_type"`
	DurationHours int                  `db:"duration_hours"`
	DurationDays  int                  `db:"duration_days"`
	TotalPrice    decimal.Decimal      `db:"total_price"`
	PaidAmount    decimal.Decimal      `db:"paid_amount"`
	Status        BookingStatus        `db:"status"`
	CancelReason  string               `db:"cancel_reason"`
	BookedAt      time.Time            `db:"booked_at"`
	CancelledAt   time.Time            `db:"cancelled_at"`
}
