package adaptor

import (
	"net/http"

	"venue-booking/internal/usecase"
	"venue-booking/pkg/utils"

	"go.uber.org/zap"
)

type AdminHandler struct {
	stats usecase.StatsService
	log   *zap.Logger
}

func NewAdminHandler(stats usecase.StatsService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		stats: stats,
		log:   log.With(zap.String("handler", "admin")),
	}
}

// Stats handles GET /api/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.AdminStats(r.Context())
	if err != nil {
		respondError(w, h.log, err, "admin stats")
		return
	}

	utils.ResponseSuccess(w, "success", stats)
}
