package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RefundStatus string

const (
	RefundStatusCompleted RefundStatus = "completed"
)

type Refund struct {
	BaseSimple
	BookingID          uuid.UUID       `db:"booking_id"`
	CancelledBookingID *uuid.UUID      `db:"cancelled_booking_id"`
	VenueID            uuid.UUID       `db:"venue_id"`
	RefundAmount       decimal.Decimal `db:"refund_amount"`
	RefundedBy         uuid.UUID       `db:"refunded_by"`
	Status             RefundStatus    `db:"status"`
	Remarks            string          `db:"remarks"`
}

// RefundSource tells which table a refund candidate came from.
type RefundSource string

const (
	RefundSourceCancelled RefundSource = "cancelled"
	RefundSourceRejected  RefundSource = "rejected"
)

// RefundCandidate is a paid booking that was cancelled or rejected.
// CancelledID is set only for RefundSourceCancelled.
type RefundCandidate struct {
	Source       RefundSource
	BookingID    uuid.UUID
	CancelledID  *uuid.UUID
	BookingCode  string
	PaidAmount   decimal.Decimal
	TotalPrice   decimal.Decimal
	Reason       string
	CreatedAt    time.Time
	CustomerID   uuid.UUID
	CustomerName string
	VenueID      uuid.UUID
	VenueName    string
	Refunded     bool
}

// RefundCandidateFilter narrows GetRefundableBookings. A nil OwnerID lists
// every venue.
type RefundCandidateFilter struct {
	OwnerID         *uuid.UUID
	ExcludeRefunded bool
}
