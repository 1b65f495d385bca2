package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	intconfig "ferry-backend/internal/config"
	"ferry-backend/internal/domain"
	"ferry-backend/internal/domain/models"
	"ferry-backend/internal/repositories"
	"ferry-backend/internal/utils"
	"ferry-backend/monitoring"

	"github.com/go-sql-driver/mysql"
)

const referenceRetries = 3

// BookingService owns the booking lifecycle: validation, pricing,
// capacity reservation, persistence and ticket issuance, plus the status
// transitions driven by payment, cancellation and refunds.
type BookingService struct {
	Trips    repositories.TripRepo
	Bookings repositories.BookingRepo
	Tickets  repositories.TicketRepo
	Fares    FareService
	Ledger   *LedgerService
	DB       *sql.DB

	// MinLead is how close to departure a self-service booking may still
	// be placed. Staff-sold walk-ins at the pier are exempt.
	MinLead time.Duration

	// Now is swappable for tests.
	Now func() time.Time

	RequestID string
}

func (s BookingService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s BookingService) ledger() *LedgerService {
	if s.Ledger != nil {
		return s.Ledger
	}
	return &LedgerService{DB: s.DB, RequestID: s.RequestID}
}

// PassengerInput carries one named passenger on a booking request.
type PassengerInput struct {
	FullName  string `json:"full_name"`
	FareClass string `json:"fare_class"`
	Address   string `json:"address"`
}

// CreateBookingInput accepts either per-passenger details or the legacy
// aggregate path (one fare class plus a count, no names).
type CreateBookingInput struct {
	TripID       int64           `json:"trip_id"`
	Pool         string          `json:"pool"`
	ContactName  string          `json:"contact_name"`
	ContactPhone string          `json:"contact_phone"`
	Passengers   []PassengerInput `json:"passengers"`

	FareClass      string `json:"fare_class"`
	PassengerCount int    `json:"passenger_count"`

	CreatedBy int64 `json:"-"`
}

// Create runs the booking pipeline: validate, price against the rule in
// effect, reserve capacity, then persist booking, passenger details and
// tickets in one transaction. Any failure after the reservation releases
// it; no partial booking is ever left visible.
func (s BookingService) Create(in CreateBookingInput) (models.Booking, error) {
	started := s.now()

	pool, ok := domain.ParsePool(in.Pool)
	if !ok {
		return models.Booking{}, domain.ValidationError{Field: "pool", Msg: "must be self_service or staff_sold"}
	}
	in.ContactName = strings.TrimSpace(in.ContactName)
	in.ContactPhone = strings.TrimSpace(in.ContactPhone)
	if in.ContactName == "" {
		return models.Booking{}, domain.ValidationError{Field: "contact_name", Msg: "required"}
	}

	details, classes, count, err := normalizePassengers(in)
	if err != nil {
		return models.Booking{}, err
	}

	trip, err := s.Trips.GetByID(in.TripID)
	if err != nil {
		return models.Booking{}, err
	}
	if trip.Status != domain.TripScheduled {
		return models.Booking{}, domain.ValidationError{Field: "trip", Msg: fmt.Sprintf("not open for booking (status %s)", trip.Status)}
	}
	if pool == domain.PoolSelfService && s.MinLead > 0 {
		departure, err := trip.DepartureAt()
		if err != nil {
			return models.Booking{}, domain.InternalError{Msg: "trip has unparseable departure", Err: err}
		}
		if departure.Before(started.Add(s.MinLead)) {
			return models.Booking{}, domain.ValidationError{Field: "trip", Msg: "departure is too soon for online booking"}
		}
	}

	fare, err := s.Fares.Resolve(trip.RouteID, started.Format("2006-01-02"))
	if err != nil {
		return models.Booking{}, err
	}
	charges, total := PriceAll(classes, fare)
	for i := range details {
		details[i].FareCents = charges[i]
	}

	status := domain.BookingPendingPayment
	if pool == domain.PoolStaffSold {
		status = domain.BookingConfirmed
	}

	ledger := s.ledger()
	reservation, err := ledger.Reserve(in.TripID, pool, count)
	if err != nil {
		return models.Booking{}, err
	}

	booking := models.Booking{
		TripID:           in.TripID,
		Pool:             pool,
		ContactName:      in.ContactName,
		ContactPhone:     in.ContactPhone,
		PassengerCount:   count,
		TotalAmountCents: total,
		Status:           status,
		CreatedBy:        in.CreatedBy,
	}

	persisted, err := s.persist(booking, details, count)
	if err != nil {
		if relErr := ledger.Release(reservation); relErr != nil {
			utils.LogEvent(s.RequestID, "booking", "release", "failed to release reservation: "+relErr.Error())
		}
		return models.Booking{}, err
	}

	monitoring.BookingCreated(string(pool), string(status))
	monitoring.ObserveBookingCreate(time.Since(started))
	utils.LogEvent(s.RequestID, "booking", "create",
		fmt.Sprintf("reference=%s trip=%d pool=%s pax=%d total=%d", persisted.Reference, in.TripID, pool, count, total))
	return persisted, nil
}

// persist writes the booking, its passenger details and its tickets as a
// unit. The booking reference is regenerated on a duplicate-key clash, a
// bounded number of times.
func (s BookingService) persist(booking models.Booking, details []models.PassengerDetail, count int) (models.Booking, error) {
	tx, err := s.db().Begin()
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	var bookingID int64
	for attempt := 0; ; attempt++ {
		booking.Reference = utils.NewBookingReference(s.now())
		bookingID, err = s.Bookings.InsertBooking(tx, booking)
		if err == nil {
			break
		}
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 && attempt < referenceRetries {
			continue
		}
		return models.Booking{}, domain.InternalError{Msg: "failed to persist booking", Err: err}
	}
	booking.ID = bookingID

	for i := range details {
		details[i].BookingID = bookingID
	}
	if err := s.Bookings.InsertPassengers(tx, bookingID, details); err != nil {
		return models.Booking{}, domain.InternalError{Msg: "failed to persist passengers", Err: err}
	}

	first, err := s.Tickets.AllocateTicketNumbers(tx, count)
	if err != nil {
		return models.Booking{}, domain.InternalError{Msg: "failed to allocate ticket numbers", Err: err}
	}
	tickets := make([]models.Ticket, count)
	for i := 0; i < count; i++ {
		tickets[i] = models.Ticket{
			BookingID:      bookingID,
			PassengerIndex: i,
			TicketNumber:   utils.FormatTicketNumber(first + int64(i)),
			Status:         domain.TicketStatus(booking.Status),
		}
	}
	if err := s.Tickets.InsertTickets(tx, tickets); err != nil {
		return models.Booking{}, domain.InternalError{Msg: "failed to issue tickets", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return models.Booking{}, domain.InternalError{Msg: "failed to commit booking", Err: err}
	}

	booking.Passengers = details
	booking.CreatedAt = s.now()
	return booking, nil
}

func normalizePassengers(in CreateBookingInput) ([]models.PassengerDetail, []domain.FareClass, int, error) {
	if len(in.Passengers) > 0 {
		details := make([]models.PassengerDetail, 0, len(in.Passengers))
		classes := make([]domain.FareClass, 0, len(in.Passengers))
		for i, p := range in.Passengers {
			name := strings.TrimSpace(p.FullName)
			if name == "" {
				return nil, nil, 0, domain.ValidationError{Field: "passengers", Msg: fmt.Sprintf("passenger %d has no name", i+1)}
			}
			class, ok := domain.ParseFareClass(p.FareClass)
			if !ok {
				return nil, nil, 0, domain.ValidationError{Field: "passengers", Msg: fmt.Sprintf("passenger %d has unknown fare class %q", i+1, p.FareClass)}
			}
			details = append(details, models.PassengerDetail{
				Index:     i,
				FullName:  name,
				FareClass: class,
				Address:   strings.TrimSpace(p.Address),
			})
			classes = append(classes, class)
		}
		return details, classes, len(details), nil
	}

	// Legacy aggregate path: a class and a count, no names. Common for
	// hurried walk-in sales at the pier; the manifest surfaces these as
	// counted-but-unnamed until reconciled.
	class, ok := domain.ParseFareClass(in.FareClass)
	if !ok {
		return nil, nil, 0, domain.ValidationError{Field: "fare_class", Msg: "unknown fare class"}
	}
	if in.PassengerCount <= 0 {
		return nil, nil, 0, domain.ValidationError{Field: "passenger_count", Msg: "must be positive"}
	}
	classes := make([]domain.FareClass, in.PassengerCount)
	for i := range classes {
		classes[i] = class
	}
	return nil, classes, in.PassengerCount, nil
}

// ConfirmPayment is the external payment-verified signal: it moves a
// pending booking and its tickets to confirmed.
func (s BookingService) ConfirmPayment(reference string) (models.Booking, error) {
	b, err := s.Bookings.GetByReference(reference)
	if err != nil {
		return models.Booking{}, err
	}
	if b.Status != domain.BookingPendingPayment {
		return models.Booking{}, domain.SequencingError{Entity: "booking", From: string(b.Status), Action: "confirm payment"}
	}
	if err := s.Bookings.UpdateStatus(b.ID, domain.BookingPendingPayment, domain.BookingConfirmed); err != nil {
		return models.Booking{}, err
	}
	if err := s.Tickets.UpdateStatusByBooking(b.ID, domain.TicketPendingPayment, domain.TicketConfirmed); err != nil {
		return models.Booking{}, err
	}
	b.Status = domain.BookingConfirmed
	utils.LogEvent(s.RequestID, "booking", "confirm_payment", "reference="+reference)
	return b, nil
}

// Cancel expires or explicitly cancels a pending booking, handing its
// seats back to the pool.
func (s BookingService) Cancel(reference string) (models.Booking, error) {
	b, err := s.Bookings.GetByReference(reference)
	if err != nil {
		return models.Booking{}, err
	}
	if b.Status != domain.BookingPendingPayment {
		return models.Booking{}, domain.SequencingError{Entity: "booking", From: string(b.Status), Action: "cancel"}
	}
	if err := s.Bookings.UpdateStatus(b.ID, domain.BookingPendingPayment, domain.BookingCancelled); err != nil {
		return models.Booking{}, err
	}
	if err := s.Tickets.TerminateByBooking(b.ID, string(domain.TicketCancelled)); err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if err := s.ledger().ReleaseSeats(b.TripID, b.Pool, b.PassengerCount); err != nil {
		return models.Booking{}, err
	}
	b.Status = domain.BookingCancelled
	utils.LogEvent(s.RequestID, "booking", "cancel", "reference="+reference)
	return b, nil
}

// Refund is the explicit operator refund action. Seats go back to the
// pool the same way a cancellation releases them.
func (s BookingService) Refund(reference, reason string) (models.Booking, error) {
	b, err := s.Bookings.GetByReference(reference)
	if err != nil {
		return models.Booking{}, err
	}
	if !b.Status.CanTransitionTo(domain.BookingRefunded) {
		return models.Booking{}, domain.SequencingError{Entity: "booking", From: string(b.Status), Action: "refund"}
	}
	if err := s.Bookings.MarkRefunded(b.ID, b.Status, strings.TrimSpace(reason)); err != nil {
		return models.Booking{}, err
	}
	if err := s.Tickets.TerminateByBooking(b.ID, string(domain.TicketRefunded)); err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if err := s.ledger().ReleaseSeats(b.TripID, b.Pool, b.PassengerCount); err != nil {
		return models.Booking{}, err
	}
	b.Status = domain.BookingRefunded
	utils.LogEvent(s.RequestID, "booking", "refund", "reference="+reference)
	return b, nil
}

// Change moves a confirmed booking to another trip in the same pool. The
// party keeps its locked fares; new tickets are issued on the target trip
// and the old ones are retired. Seats move ledger-first, so an overfull
// target trip rejects the change before anything is written.
func (s BookingService) Change(reference string, newTripID int64) (models.Booking, error) {
	old, err := s.Bookings.GetByReference(reference)
	if err != nil {
		return models.Booking{}, err
	}
	if old.Status != domain.BookingConfirmed {
		return models.Booking{}, domain.SequencingError{Entity: "booking", From: string(old.Status), Action: "change"}
	}
	if newTripID == old.TripID {
		return models.Booking{}, domain.ValidationError{Field: "trip_id", Msg: "booking is already on this trip"}
	}

	target, err := s.Trips.GetByID(newTripID)
	if err != nil {
		return models.Booking{}, err
	}
	if target.Status != domain.TripScheduled {
		return models.Booking{}, domain.ValidationError{Field: "trip", Msg: fmt.Sprintf("not open for booking (status %s)", target.Status)}
	}

	details, err := s.Bookings.ListPassengers(old.ID)
	if err != nil {
		return models.Booking{}, err
	}

	ledger := s.ledger()
	reservation, err := ledger.Reserve(newTripID, old.Pool, old.PassengerCount)
	if err != nil {
		return models.Booking{}, err
	}

	replacement := models.Booking{
		TripID:           newTripID,
		Pool:             old.Pool,
		ContactName:      old.ContactName,
		ContactPhone:     old.ContactPhone,
		PassengerCount:   old.PassengerCount,
		TotalAmountCents: old.TotalAmountCents,
		Status:           domain.BookingConfirmed,
		CreatedBy:        old.CreatedBy,
	}
	for i := range details {
		details[i].ID = 0
	}

	persisted, err := s.persist(replacement, details, old.PassengerCount)
	if err != nil {
		if relErr := ledger.Release(reservation); relErr != nil {
			utils.LogEvent(s.RequestID, "booking", "release", "failed to release reservation: "+relErr.Error())
		}
		return models.Booking{}, err
	}

	if err := s.Bookings.UpdateStatus(old.ID, domain.BookingConfirmed, domain.BookingChanged); err != nil {
		return models.Booking{}, err
	}
	if err := s.Tickets.TerminateByBooking(old.ID, string(domain.TicketCancelled)); err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if err := ledger.ReleaseSeats(old.TripID, old.Pool, old.PassengerCount); err != nil {
		return models.Booking{}, err
	}

	utils.LogEvent(s.RequestID, "booking", "change",
		fmt.Sprintf("old=%s new=%s trip=%d", reference, persisted.Reference, newTripID))
	return persisted, nil
}

// Get returns a booking with its passenger details and tickets.
func (s BookingService) Get(reference string) (models.Booking, []models.Ticket, error) {
	b, err := s.Bookings.GetByReference(reference)
	if err != nil {
		return models.Booking{}, nil, err
	}
	passengers, err := s.Bookings.ListPassengers(b.ID)
	if err != nil {
		return models.Booking{}, nil, err
	}
	b.Passengers = passengers
	tickets, err := s.Tickets.ListByBooking(b.ID)
	if err != nil {
		return models.Booking{}, nil, err
	}
	return b, tickets, nil
}
