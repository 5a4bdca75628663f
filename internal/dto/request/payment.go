package request

import "github.com/shopspring/decimal"

type ProcessPaymentRequest struct {
	BookingID     string          `json:"booking_id" validate:"required,uuid"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method" validate:"required,max=50"`
}
