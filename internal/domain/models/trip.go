package models

import (
	"time"

	"ferry-backend/internal/domain"
)

// Trip is one scheduled voyage. The two booked counters are mutated only
// through the seat ledger; everywhere else they are read-only.
type Trip struct {
	ID                int64
	VesselID          int64
	RouteID           int64
	TripDate          string // YYYY-MM-DD
	TripTime          string // HH:MM
	SelfServiceQuota  int
	SelfServiceBooked int
	StaffSoldQuota    int
	StaffSoldBooked   int
	Status            domain.TripStatus
	VesselName        string
	RouteOrigin       string
	RouteDestination  string
	CreatedAt         time.Time
}

// Quota returns the pool's seat quota.
func (t Trip) Quota(p domain.Pool) int {
	if p == domain.PoolStaffSold {
		return t.StaffSoldQuota
	}
	return t.SelfServiceQuota
}

// Booked returns the pool's booked counter.
func (t Trip) Booked(p domain.Pool) int {
	if p == domain.PoolStaffSold {
		return t.StaffSoldBooked
	}
	return t.SelfServiceBooked
}

// AvailableSeats returns quota minus booked for the pool.
func (t Trip) AvailableSeats(p domain.Pool) int {
	return t.Quota(p) - t.Booked(p)
}

// DepartureAt parses the trip's date and time in the server's location.
func (t Trip) DepartureAt() (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", t.TripDate+" "+t.TripTime, time.Local)
}

// CrewMember is an assigned crew entry on a vessel. More than one captain
// on the same vessel is a data-quality anomaly surfaced on the manifest.
type CrewMember struct {
	ID       int64
	VesselID int64
	Name     string
	Role     string
}
