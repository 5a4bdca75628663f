package adaptor

import (
	"net/http"

	"venue-booking/internal/dto/request"
	"venue-booking/internal/usecase"
	"venue-booking/pkg/utils"

	"go.uber.org/zap"
)

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// ProcessPayment handles POST /api/payments
func (h *PaymentHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.ProcessPaymentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	receipt, err := h.service.ProcessPayment(r.Context(), userID, &req)
	if err != nil {
		respondError(w, h.log, err, "process payment")
		return
	}

	utils.ResponseCreated(w, "Payment recorded", receipt)
}

// GetPayments handles GET /api/bookings/{id}/payments
func (h *PaymentHandler) GetPayments(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	bookingID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	payments, err := h.service.GetPaymentsByBooking(r.Context(), userID, bookingID)
	if err != nil {
		respondError(w, h.log, err, "get payments")
		return
	}

	utils.ResponseSuccess(w, "success", payments)
}
