package request

import "github.com/shopspring/decimal"

// ProcessRefundRequest names exactly one source: a cancelled record or a
// rejected booking. A missing or non-positive RefundAmount refunds
// everything paid.
type ProcessRefundRequest struct {
	CancelledID  *string          `json:"cancelled_id,omitempty" validate:"omitempty,uuid"`
	BookingID    *string          `json:"booking_id,omitempty" validate:"omitempty,uuid"`
	RefundAmount *decimal.Decimal `json:"refund_amount,omitempty"`
	Remarks      string           `json:"remarks" validate:"max=500"`
}
