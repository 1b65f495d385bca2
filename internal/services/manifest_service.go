package services

import (
	"fmt"
	"time"

	"ferry-backend/internal/domain"
	"ferry-backend/internal/domain/models"
	"ferry-backend/internal/repositories"
	"ferry-backend/internal/utils"
	"ferry-backend/monitoring"
)

// ManifestService compiles the regulator-facing passenger roster and
// reconciles the staff-sold counter against it. The manifest is derived
// on every read, never stored.
type ManifestService struct {
	Trips     repositories.TripRepo
	Bookings  repositories.BookingRepo
	Tickets   repositories.TicketRepo
	Crew      repositories.CrewRepo
	Ledger    *LedgerService
	RequestID string
}

func (s ManifestService) ledger() *LedgerService {
	if s.Ledger != nil {
		return s.Ledger
	}
	return &LedgerService{RequestID: s.RequestID}
}

// Compile merges the trip's active bookings into an ordered roster and
// reconciles it against the staff-sold counter. Passengers counted
// toward capacity but never entered by name show up as
// walk_in_unnamed_count; every soul aboard is either a named row or part
// of that number.
func (s ManifestService) Compile(tripID int64) (models.Manifest, error) {
	trip, err := s.Trips.GetByID(tripID)
	if err != nil {
		return models.Manifest{}, err
	}

	bookings, err := s.Bookings.ListForManifest(tripID)
	if err != nil {
		return models.Manifest{}, err
	}

	m := models.Manifest{
		TripID:           trip.ID,
		TripDate:         trip.TripDate,
		TripTime:         trip.TripTime,
		VesselName:       trip.VesselName,
		RouteOrigin:      trip.RouteOrigin,
		RouteDestination: trip.RouteDestination,
		Rows:             []models.ManifestRow{},
		StaffSoldBooked:  trip.StaffSoldBooked,
		CompiledAt:       time.Now(),
	}

	seq := 0
	for _, b := range bookings {
		passengers, err := s.Bookings.ListPassengers(b.ID)
		if err != nil {
			return models.Manifest{}, err
		}
		byIndex := make(map[int]models.PassengerDetail, len(passengers))
		for _, p := range passengers {
			byIndex[p.Index] = p
		}

		tickets, err := s.Tickets.ListByBooking(b.ID)
		if err != nil {
			return models.Manifest{}, err
		}

		source := "online"
		if b.IsWalkIn() {
			source = "walk-in"
		}

		for _, t := range tickets {
			detail, named := byIndex[t.PassengerIndex]
			if !named || detail.FullName == "" {
				// Counted toward the pool but never entered by name;
				// accounted for below via the raw counter.
				continue
			}
			seq++
			m.Rows = append(m.Rows, models.ManifestRow{
				Sequence:     seq,
				TicketNumber: t.TicketNumber,
				BookingRef:   b.Reference,
				FullName:     detail.FullName,
				FareClass:    detail.FareClass,
				Address:      detail.Address,
				ContactPhone: b.ContactPhone,
				Source:       source,
				Status:       t.Status,
				CheckedInAt:  t.CheckedInAt,
				BoardedAt:    t.BoardedAt,
			})
			if b.IsWalkIn() {
				m.WalkInNamedCount++
			}
		}
	}

	m.NamedCount = len(m.Rows)
	m.WalkInUnnamedCount = trip.StaffSoldBooked - m.WalkInNamedCount
	if m.WalkInUnnamedCount < 0 {
		m.WalkInUnnamedCount = 0
	}
	m.TotalPassengers = m.NamedCount + m.WalkInUnnamedCount

	captains, err := s.Crew.CountCaptains(trip.VesselID)
	if err != nil {
		return models.Manifest{}, err
	}
	m.CaptainCount = captains
	m.MultipleCaptains = captains > 1

	monitoring.ManifestCompiled()
	return m, nil
}

// Reconcile shrinks the staff-sold booked counter down to the number of
// actually named walk-in passengers. A trip with nothing to reconcile is
// a no-op, not an error. This is the only sanctioned way to shrink a
// booked counter; it can never inflate capacity.
func (s ManifestService) Reconcile(tripID int64) (models.Manifest, bool, error) {
	m, err := s.Compile(tripID)
	if err != nil {
		return models.Manifest{}, false, err
	}
	if m.WalkInUnnamedCount == 0 {
		monitoring.Reconciled(false)
		return m, false, nil
	}

	delta := -m.WalkInUnnamedCount
	if err := s.ledger().Adjust(tripID, domain.PoolStaffSold, delta, m.WalkInNamedCount); err != nil {
		return models.Manifest{}, false, err
	}

	utils.LogEvent(s.RequestID, "manifest", "reconcile",
		fmt.Sprintf("trip=%d delta=%d named=%d", tripID, delta, m.WalkInNamedCount))
	monitoring.Reconciled(true)

	m, err = s.Compile(tripID)
	if err != nil {
		return models.Manifest{}, true, err
	}
	return m, true, nil
}
