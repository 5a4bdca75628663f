package adaptor

import (
	"net/http"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/dto/request"
	"venue-booking/internal/usecase"
	"venue-booking/pkg/utils"

	"go.uber.org/zap"
)

type RefundHandler struct {
	service usecase.RefundService
	log     *zap.Logger
}

func NewRefundHandler(service usecase.RefundService, log *zap.Logger) *RefundHandler {
	return &RefundHandler{
		service: service,
		log:     log.With(zap.String("handler", "refund")),
	}
}

// GetCandidates handles GET /api/owner/refunds/candidates?exclude_refunded=
// Admins see every venue.
func (h *RefundHandler) GetCandidates(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	filter := entity.RefundCandidateFilter{
		ExcludeRefunded: utils.ParseBool(r.URL.Query().Get("exclude_refunded"), false),
	}
	if !utils.HasRole(r.Context(), string(entity.RoleAdmin)) {
		filter.OwnerID = &userID
	}

	candidates, err := h.service.GetRefundableBookings(r.Context(), filter)
	if err != nil {
		respondError(w, h.log, err, "get refund candidates")
		return
	}

	utils.ResponseSuccess(w, "success", candidates)
}

// ProcessRefund handles POST /api/owner/refunds
func (h *RefundHandler) ProcessRefund(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.ProcessRefundRequest
	if !decodeBody(w, r, &req) {
		return
	}

	refund, err := h.service.ProcessRefund(r.Context(), ownerID, &req)
	if err != nil {
		respondError(w, h.log, err, "process refund")
		return
	}

	utils.ResponseCreated(w, "Refund issued", refund)
}

// GetRefunds handles GET /api/owner/refunds
func (h *RefundHandler) GetRefunds(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := currentUser(w, r)
	if !ok {
		return
	}

	refunds, err := h.service.GetRefundsByOwner(r.Context(), ownerID)
	if err != nil {
		respondError(w, h.log, err, "get refunds")
		return
	}

	utils.ResponseSuccess(w, "success", refunds)
}
