package services

import (
	"fmt"

	"ferry-backend/internal/domain"
	"ferry-backend/internal/domain/models"
	"ferry-backend/internal/repositories"
	"ferry-backend/internal/utils"
)

// TripService handles trip lifecycle changes. Seat counters are not
// touched here; they belong to the ledger.
type TripService struct {
	Trips     repositories.TripRepo
	Bookings  repositories.BookingRepo
	Tickets   repositories.TicketRepo
	RequestID string
}

// UpdateStatus transitions a trip. Arrival sweeps boarded bookings and
// tickets into completed.
func (s TripService) UpdateStatus(tripID int64, next domain.TripStatus) (models.Trip, error) {
	trip, err := s.Trips.GetByID(tripID)
	if err != nil {
		return models.Trip{}, err
	}
	if !trip.Status.CanTransitionTo(next) {
		return models.Trip{}, domain.SequencingError{Entity: "trip", From: string(trip.Status), Action: fmt.Sprintf("move to %s", next)}
	}
	if err := s.Trips.UpdateStatus(tripID, trip.Status, next); err != nil {
		return models.Trip{}, err
	}

	if next == domain.TripArrived {
		if err := s.Tickets.CompleteBoardedByTrip(tripID); err != nil {
			return models.Trip{}, domain.InternalError{Err: err}
		}
		if err := s.Bookings.CompleteBoarded(tripID); err != nil {
			return models.Trip{}, domain.InternalError{Err: err}
		}
	}

	utils.LogEvent(s.RequestID, "trip", "status", fmt.Sprintf("trip=%d %s -> %s", tripID, trip.Status, next))
	trip.Status = next
	return trip, nil
}
