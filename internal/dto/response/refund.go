package response

import (
	"time"

	"venue-booking/internal/data/entity"

	"github.com/shopspring/decimal"
)

type RefundResponse struct {
	ID                 string              `json:"id"`
	BookingID          string              `json:"booking_id"`
	CancelledBookingID *string             `json:"cancelled_booking_id,omitempty"`
	VenueID            string              `json:"venue_id"`
	RefundAmount       decimal.Decimal     `json:"refund_amount"`
	RefundedBy         string              `json:"refunded_by"`
	Status             entity.RefundStatus `json:"status"`
	Remarks            string              `json:"remarks,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
}

func RefundToResponse(r *entity.Refund) RefundResponse {
	resp := RefundResponse{
		ID:           r.ID.String(),
		BookingID:    r.BookingID.String(),
		VenueID:      r.VenueID.String(),
		RefundAmount: r.RefundAmount,
		RefundedBy:   r.RefundedBy.String(),
		Status:       r.Status,
		Remarks:      r.Remarks,
		CreatedAt:    r.CreatedAt,
	}
	if r.CancelledBookingID != nil {
		id := r.CancelledBookingID.String()
		resp.CancelledBookingID = &id
	}
	return resp
}

type RefundCandidateResponse struct {
	Source       entity.RefundSource `json:"source"`
	BookingID    string              `json:"booking_id"`
	CancelledID  *string             `json:"cancelled_id,omitempty"`
	BookingCode  string              `json:"booking_code"`
	PaidAmount   decimal.Decimal     `json:"paid_amount"`
	TotalPrice   decimal.Decimal     `json:"total_price"`
	Reason       string              `json:"reason"`
	CreatedAt    time.Time           `json:"created_at"`
	CustomerID   string              `json:"customer_id"`
	CustomerName string              `json:"customer_name"`
	VenueID      string              `json:"venue_id"`
	VenueName    string              `json:"venue_name"`
	Refunded     bool                `json:"refunded"`
}

func RefundCandidateToResponse(c entity.RefundCandidate) RefundCandidateResponse {
	resp := RefundCandidateResponse{
		Source:       c.Source,
		BookingID:    c.BookingID.String(),
		BookingCode:  c.BookingCode,
		PaidAmount:   c.PaidAmount,
		TotalPrice:   c.TotalPrice,
		Reason:       c.Reason,
		CreatedAt:    c.CreatedAt,
		CustomerID:   c.CustomerID.String(),
		CustomerName: c.CustomerName,
		VenueID:      c.VenueID.String(),
		VenueName:    c.VenueName,
		Refunded:     c.Refunded,
	}
	if c.CancelledID != nil {
		id := c.CancelledID.String()
		resp.CancelledID = &id
	}
	return resp
}
