package models

import (
	"time"

	"ferry-backend/internal/domain"
)

// ManifestRow is a derived, read-only projection of one passenger on the
// roster. Never persisted; recomputed on each manifest read.
type ManifestRow struct {
	Sequence     int                 `json:"sequence"`
	TicketNumber string              `json:"ticket_number"`
	BookingRef   string              `json:"booking_reference"`
	FullName     string              `json:"full_name"`
	FareClass    domain.FareClass    `json:"fare_class"`
	Address      string              `json:"address"`
	ContactPhone string              `json:"contact_phone"`
	Source       string              `json:"source"` // online | walk-in
	Status       domain.TicketStatus `json:"status"`
	CheckedInAt  *time.Time          `json:"checked_in_at,omitempty"`
	BoardedAt    *time.Time          `json:"boarded_at,omitempty"`
}

// Manifest is the compiled passenger roster for one trip, the document
// handed to operators and the compliance authority. Unnamed walk-ins are
// passengers counted toward the staff-sold pool but never entered by name.
type Manifest struct {
	TripID             int64         `json:"trip_id"`
	TripDate           string        `json:"trip_date"`
	TripTime           string        `json:"trip_time"`
	VesselName         string        `json:"vessel_name"`
	RouteOrigin        string        `json:"route_origin"`
	RouteDestination   string        `json:"route_destination"`
	Rows               []ManifestRow `json:"rows"`
	NamedCount         int           `json:"named_count"`
	WalkInNamedCount   int           `json:"walk_in_named_count"`
	WalkInUnnamedCount int           `json:"walk_in_unnamed_count"`
	TotalPassengers    int           `json:"total_passengers"`
	StaffSoldBooked    int           `json:"staff_sold_booked"`
	CaptainCount       int           `json:"captain_count"`
	MultipleCaptains   bool          `json:"multiple_captains"`
	CompiledAt         time.Time     `json:"compiled_at"`
}
