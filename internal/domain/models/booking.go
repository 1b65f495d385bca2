package models

import (
	"time"

	"ferry-backend/internal/domain"
)

// Booking owns the locked total: TotalAmountCents is computed once at
// creation from the fare rule in effect and never recomputed, even if
// rules change later.
type Booking struct {
	ID               int64
	Reference        string
	TripID           int64
	Pool             domain.Pool
	ContactName      string
	ContactPhone     string
	PassengerCount   int
	TotalAmountCents int64
	Status           domain.BookingStatus
	CreatedBy        int64 // 0 when created anonymously (self-service)
	RefundReason     string
	RefundedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Passengers []PassengerDetail
}

// IsWalkIn reports whether the booking was sold in person from the
// staff-sold pool.
func (b Booking) IsWalkIn() bool {
	return b.Pool == domain.PoolStaffSold
}

// PassengerDetail is one named passenger inside a booking. Index is
// 0-based and stable; FareCents is that passenger's independently
// rounded charge, locked at booking time.
type PassengerDetail struct {
	ID        int64
	BookingID int64
	Index     int
	FullName  string
	FareClass domain.FareClass
	Address   string
	FareCents int64
}
