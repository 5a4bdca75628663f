package entity

import (
	"github.com/shopspring/decimal"
)

type AdminStats struct {
	Venues            int64
	Users             int64
	BookingsByStatus  map[BookingStatus]int64
	CancelledBookings int64
	TotalPaid         decimal.Decimal
	TotalRefunded     decimal.Decimal
}
