// Package notify delivers booking notifications to users. Delivery is best
// effort: every channel logs its own failure and never reports it back to
// the operation that triggered it.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types published on the realtime stream and the event topic.
const (
	EventBookingCreated   = "booking.created"
	EventBookingApproved  = "booking.approved"
	EventBookingRejected  = "booking.rejected"
	EventBookingCancelled = "booking.cancelled"
	EventPaymentReceived  = "payment.received"
	EventRefundIssued     = "refund.issued"
	EventPaymentReminder  = "payment.reminder"
)

type Event struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	UserID    uuid.UUID `json:"user_id"`
	BookingID uuid.UUID `json:"booking_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	At        time.Time `json:"at"`
}

// Notice is one notification for one user. Email may be empty to skip mail.
type Notice struct {
	Type      string
	UserID    uuid.UUID
	Email     string
	BookingID uuid.UUID
	Message   Message
}

// Notifier is what the booking workflow sees of notification delivery.
type Notifier interface {
	Dispatch(ctx context.Context, n Notice)
}
