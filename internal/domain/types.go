package domain

import "strings"

// Pool is one of the two independent seat-capacity buckets on a trip.
// Every ledger operation is pool-aware by construction; there is no
// walk-in flag threaded through call sites.
type Pool string

const (
	PoolSelfService Pool = "self_service"
	PoolStaffSold   Pool = "staff_sold"
)

func ParsePool(s string) (Pool, bool) {
	switch Pool(strings.ToLower(strings.TrimSpace(s))) {
	case PoolSelfService:
		return PoolSelfService, true
	case PoolStaffSold:
		return PoolStaffSold, true
	}
	return "", false
}

// BookedColumn returns the trips column holding the pool's booked counter.
func (p Pool) BookedColumn() string {
	if p == PoolStaffSold {
		return "staff_sold_booked"
	}
	return "self_service_booked"
}

// QuotaColumn returns the trips column holding the pool's quota.
func (p Pool) QuotaColumn() string {
	if p == PoolStaffSold {
		return "staff_sold_quota"
	}
	return "self_service_quota"
}

type FareClass string

const (
	FareAdult  FareClass = "adult"
	FareSenior FareClass = "senior"
	FarePWD    FareClass = "pwd"
	FareChild  FareClass = "child"
	FareInfant FareClass = "infant"
)

func ParseFareClass(s string) (FareClass, bool) {
	switch FareClass(strings.ToLower(strings.TrimSpace(s))) {
	case FareAdult:
		return FareAdult, true
	case FareSenior:
		return FareSenior, true
	case FarePWD:
		return FarePWD, true
	case FareChild:
		return FareChild, true
	case FareInfant:
		return FareInfant, true
	}
	return "", false
}

type TripStatus string

const (
	TripScheduled TripStatus = "scheduled"
	TripBoarding  TripStatus = "boarding"
	TripDeparted  TripStatus = "departed"
	TripArrived   TripStatus = "arrived"
	TripCancelled TripStatus = "cancelled"
	TripDelayed   TripStatus = "delayed"
)

var tripTransitions = map[TripStatus][]TripStatus{
	TripScheduled: {TripBoarding, TripDeparted, TripCancelled, TripDelayed},
	TripBoarding:  {TripDeparted, TripCancelled, TripDelayed},
	TripDelayed:   {TripBoarding, TripDeparted, TripCancelled},
	TripDeparted:  {TripArrived},
}

func ParseTripStatus(s string) (TripStatus, bool) {
	v := TripStatus(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case TripScheduled, TripBoarding, TripDeparted, TripArrived, TripCancelled, TripDelayed:
		return v, true
	}
	return "", false
}

func (s TripStatus) CanTransitionTo(next TripStatus) bool {
	for _, t := range tripTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

type BookingStatus string

const (
	BookingPendingPayment BookingStatus = "pending_payment"
	BookingConfirmed      BookingStatus = "confirmed"
	BookingCheckedIn      BookingStatus = "checked_in"
	BookingBoarded        BookingStatus = "boarded"
	BookingCompleted      BookingStatus = "completed"
	BookingCancelled      BookingStatus = "cancelled"
	BookingRefunded       BookingStatus = "refunded"
	BookingChanged        BookingStatus = "changed"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPendingPayment: {BookingConfirmed, BookingCancelled, BookingRefunded},
	BookingConfirmed:      {BookingCheckedIn, BookingRefunded, BookingChanged},
	BookingCheckedIn:      {BookingBoarded, BookingRefunded},
	BookingBoarded:        {BookingCompleted, BookingRefunded},
	BookingCompleted:      {BookingRefunded},
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, t := range bookingTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// IsTerminal reports statuses that accept no further transitions.
func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

// CountsTowardManifest reports whether a booking in this status belongs on
// the passenger roster.
func (s BookingStatus) CountsTowardManifest() bool {
	switch s {
	case BookingConfirmed, BookingCheckedIn, BookingBoarded, BookingCompleted:
		return true
	}
	return false
}

// Ticket statuses mirror booking statuses; each ticket advances
// independently through check-in and boarding.
type TicketStatus string

const (
	TicketPendingPayment TicketStatus = "pending_payment"
	TicketConfirmed      TicketStatus = "confirmed"
	TicketCheckedIn      TicketStatus = "checked_in"
	TicketBoarded        TicketStatus = "boarded"
	TicketCompleted      TicketStatus = "completed"
	TicketCancelled      TicketStatus = "cancelled"
	TicketRefunded       TicketStatus = "refunded"
)
