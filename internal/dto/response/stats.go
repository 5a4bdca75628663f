package response

import (
	"venue-booking/internal/data/entity"

	"github.com/shopspring/decimal"
)

type AdminStatsResponse struct {
	Venues            int64                          `json:"venues"`
	Users             int64                          `json:"users"`
	BookingsByStatus  map[entity.BookingStatus]int64 `json:"bookings_by_status"`
	CancelledBookings int64                          `json:"cancelled_bookings"`
	TotalPaid         decimal.Decimal                `json:"total_paid"`
	TotalRefunded     decimal.Decimal                `json:"total_refunded"`
	NetRevenue        decimal.Decimal                `json:"net_revenue"`
}

func StatsToResponse(s *entity.AdminStats) AdminStatsResponse {
	return AdminStatsResponse{
		Venues:            s.Venues,
		Users:             s.Users,
		BookingsByStatus:  s.BookingsByStatus,
		CancelledBookings: s.CancelledBookings,
		TotalPaid:         s.TotalPaid,
		TotalRefunded:     s.TotalRefunded,
		NetRevenue:        s.TotalPaid.Sub(s.TotalRefunded),
	}
}
