package entity

import (
	"time"

	"venue-booking/internal/availability"
	"venue-booking/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusApproved  BookingStatus = "approved"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Active bookings hold their slot on the venue calendar.
func (s BookingStatus) Active() bool {
	return s == BookingStatusPending || s == BookingStatusApproved
}

type Booking struct {
	BaseNoDelete
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
}

// DueAmount is always derived so it cannot drift from the ledger.
func (b *Booking) DueAmount() decimal.Decimal {
	return b.TotalPrice.Sub(b.PaidAmount)
}

func (b *Booking) Interval() availability.Interval {
	return availability.Interval{Start: b.BookingDate, End: b.EndsAt}
}

func (b *Booking) Projection() pricing.Projection {
	return pricing.Projection{
		StoredTotal:  b.TotalPrice,
		PaidAmount:   b.PaidAmount,
		Pending:      b.Status == BookingStatusPending,
		StartsAt:     b.BookingDate,
		DurationType: b.DurationType,
		Hours:        b.DurationHours,
		Days:         b.DurationDays,
	}
}

// BookingWithVenue is a booking joined with the venue fields listings need.
type BookingWithVenue struct {
	Booking
	VenueName     string    `db:"venue_name"`
	VenueOwnerID  uuid.UUID `db:"owner_id"`
	CustomerName  string    `db:"customer_name"`
	CustomerEmail string    `db:"customer_email"`
}
