package response

import (
	"time"

	"venue-booking/internal/data/entity"

	"github.com/shopspring/decimal"
)

type PaymentResponse struct {
	ID        string               `json:"id"`
	BookingID string               `json:"booking_id"`
	Amount    decimal.Decimal      `json:"amount"`
	Method    string               `json:"payment_method"`
	Status    entity.PaymentStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
}

func PaymentToResponse(p *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:        p.ID.String(),
		BookingID: p.BookingID.String(),
		Amount:    p.Amount,
		Method:    p.Method,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
	}
}

// PaymentReceipt is a recorded payment with the booking balance after it.
type PaymentReceipt struct {
	Payment    PaymentResponse `json:"payment"`
	TotalPrice decimal.Decimal `json:"total_price"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	DueAmount  decimal.Decimal `json:"due_amount"`
	IsPaid     bool            `json:"is_paid"`
}
