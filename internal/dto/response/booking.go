package response

import (
	"time"

	"venue-booking/internal/data/entity"

	"github.com/shopspring/decimal"
)

type BookingResponse struct {
	ID            string               `json:"id"`
	BookingCode   string               `json:"booking_code"`
	VenueID       string               `json:"venue_id"`
	VenueName     string               `json:"venue_name,omitempty"`
	CustomerID    string               `json:"customer_id"`
	CustomerName  string               `json:"customer_name,omitempty"`
	BookingDate   time.Time            `json:"booking_date"`
	EndsAt        time.Time            `json:"ends_at"`
	DurationType  int                  `json:"duration_type"`
	DurationName  string               `json:"duration_name"`
	DurationHours int                  `json:"duration_hours"`
	DurationDays  int                  `json:"duration_days"`
	TotalPrice    decimal.Decimal      `json:"total_price"`
	PaidAmount    decimal.Decimal      `json:"paid_amount"`
	DueAmount     decimal.Decimal      `json:"due_amount"`
	IsPaid        bool                 `json:"is_paid"`
	Status        entity.BookingStatus `json:"status"`
	CreatedAt     time.Time            `json:"created_at"`
}

// BookingToResponse renders b with total as the total a reader should see.
func BookingToResponse(b *entity.BookingWithVenue, total decimal.Decimal, isPaid bool) BookingResponse {
	return BookingResponse{
		ID:            b.ID.String(),
		BookingCode:   b.BookingCode,
		VenueID:       b.VenueID.String(),
		VenueName:     b.VenueName,
		CustomerID:    b.CustomerID.String(),
		CustomerName:  b.CustomerName,
		BookingDate:   b.BookingDate,
		EndsAt:        b.EndsAt,
		DurationType:  int(b.DurationType),
		DurationName:  b.DurationType.String(),
		DurationHours: b.DurationHours,
		DurationDays:  b.DurationDays,
		TotalPrice:    total,
		PaidAmount:    b.PaidAmount,
		DueAmount:     total.Sub(b.PaidAmount),
		IsPaid:        isPaid,
		Status:        b.Status,
		CreatedAt:     b.CreatedAt,
	}
}

type CancelledBookingResponse struct {
	ID           string               `json:"id"`
	BookingID    string               `json:"booking_id"`
	BookingCode  string               `json:"booking_code"`
	VenueID      string               `json:"venue_id"`
	BookingDate  time.Time            `json:"booking_date"`
	EndsAt       time.Time            `json:"ends_at"`
	DurationName string               `json:"duration_name"`
	TotalPrice   decimal.Decimal      `json:"total_price"`
	PaidAmount   decimal.Decimal      `json:"paid_amount"`
	Status       entity.BookingStatus `json:"status"`
	CancelReason string               `json:"cancel_reason"`
	BookedAt     time.Time            `json:"booked_at"`
	CancelledAt  time.Time            `json:"cancelled_at"`
}

func CancelledToResponse(c *entity.CancelledBooking) CancelledBookingResponse {
	return CancelledBookingResponse{
		ID:           c.ID.String(),
		BookingID:    c.BookingID.String(),
		BookingCode:  c.BookingCode,
		VenueID:      c.VenueID.String(),
		BookingDate:  c.BookingDate,
		EndsAt:       c.EndsAt,
		DurationName: c.DurationType.String(),
		TotalPrice:   c.TotalPrice,
		PaidAmount:   c.PaidAmount,
		Status:       c.Status,
		CancelReason: c.CancelReason,
		BookedAt:     c.BookedAt,
		CancelledAt:  c.CancelledAt,
	}
}
