package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBooking_DueAmount(t *testing.T) {
	b := &Booking{
		TotalPrice: decimal.RequireFromString("1500"),
		PaidAmount: decimal.RequireFromString("900"),
	}
	assert.True(t, b.DueAmount().Equal(decimal.RequireFromString("600")))

	b.PaidAmount = b.TotalPrice
	assert.True(t, b.DueAmount().IsZero())
}

func TestBookingStatus_Active(t *testing.T) {
	assert.True(t, BookingStatusPending.Active())
	assert.True(t, BookingStatusApproved.Active())
	assert.False(t, BookingStatusRejected.Active())
	assert.False(t, BookingStatusCancelled.Active())
}

func TestBooking_Interval(t *testing.T) {
	start := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	b := &Booking{BookingDate: start, EndsAt: start.Add(3 * time.Hour)}

	iv := b.Interval()
	assert.Equal(t, start, iv.Start)
	assert.Equal(t, start.Add(3*time.Hour), iv.End)
}
