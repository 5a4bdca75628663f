package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
	PaymentStatusPending PaymentStatus = "pending"
)

// Payment rows are append-only.
type Payment struct {
	BaseSimple
	BookingID uuid.UUID       `db:"booking_id"`
	VenueID   uuid.UUID       `db:"venue_id"`
	Amount    decimal.Decimal `db:"amount"`
	Method    string          `db:"method"`
	Status    PaymentStatus   `db:"status"`
}
