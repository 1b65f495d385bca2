package services

import (
	"ferry-backend/internal/domain"
	"ferry-backend/internal/domain/models"
	"ferry-backend/internal/repositories"
	"ferry-backend/internal/utils"
	"ferry-backend/monitoring"
)

// TicketService advances individual tickets through the boarding
// lifecycle. Scans are assumed serialized per booking by the caller (one
// gate scan at a time); the guarded updates make a lost race a rejection
// rather than a double advance.
type TicketService struct {
	Tickets   repositories.TicketRepo
	Bookings  repositories.BookingRepo
	RequestID string
}

// CheckIn moves a confirmed ticket to checked_in. Rejected out-of-order
// or duplicate scans leave the ticket untouched.
func (s TicketService) CheckIn(ticketNumber string) (models.Ticket, error) {
	t, err := s.Tickets.GetByNumber(ticketNumber)
	if err != nil {
		monitoring.TicketScan("check_in", "error")
		return models.Ticket{}, err
	}
	if t.Status != domain.TicketConfirmed {
		monitoring.TicketScan("check_in", "rejected")
		return models.Ticket{}, domain.SequencingError{Entity: "ticket", From: string(t.Status), Action: "check in"}
	}
	ok, err := s.Tickets.MarkCheckedIn(t.ID)
	if err != nil {
		monitoring.TicketScan("check_in", "error")
		return models.Ticket{}, err
	}
	if !ok {
		monitoring.TicketScan("check_in", "rejected")
		return models.Ticket{}, domain.SequencingError{Entity: "ticket", From: string(t.Status), Action: "check in"}
	}

	s.rollBookingForward(t.BookingID, domain.TicketCheckedIn, domain.BookingConfirmed, domain.BookingCheckedIn)

	monitoring.TicketScan("check_in", "ok")
	utils.LogEvent(s.RequestID, "ticket", "check_in", "number="+ticketNumber)
	return s.Tickets.GetByNumber(ticketNumber)
}

// Board moves a checked-in ticket to boarded. Boarding before check-in
// is a sequencing error.
func (s TicketService) Board(ticketNumber string) (models.Ticket, error) {
	t, err := s.Tickets.GetByNumber(ticketNumber)
	if err != nil {
		monitoring.TicketScan("board", "error")
		return models.Ticket{}, err
	}
	if t.Status != domain.TicketCheckedIn {
		monitoring.TicketScan("board", "rejected")
		return models.Ticket{}, domain.SequencingError{Entity: "ticket", From: string(t.Status), Action: "board"}
	}
	ok, err := s.Tickets.MarkBoarded(t.ID)
	if err != nil {
		monitoring.TicketScan("board", "error")
		return models.Ticket{}, err
	}
	if !ok {
		monitoring.TicketScan("board", "rejected")
		return models.Ticket{}, domain.SequencingError{Entity: "ticket", From: string(t.Status), Action: "board"}
	}

	s.rollBookingForward(t.BookingID, domain.TicketBoarded, domain.BookingCheckedIn, domain.BookingBoarded)

	monitoring.TicketScan("board", "ok")
	utils.LogEvent(s.RequestID, "ticket", "board", "number="+ticketNumber)
	return s.Tickets.GetByNumber(ticketNumber)
}

// rollBookingForward advances the booking once its whole party has
// reached the ticket status. Best-effort: a concurrent transition is not
// an error for the scan that lost.
func (s TicketService) rollBookingForward(bookingID int64, reached domain.TicketStatus, from, to domain.BookingStatus) {
	remaining, err := s.Tickets.CountNotInStatus(bookingID, reached)
	if err != nil || remaining > 0 {
		return
	}
	if err := s.Bookings.UpdateStatus(bookingID, from, to); err != nil && !domain.IsConflict(err) {
		utils.LogEvent(s.RequestID, "ticket", "roll_booking", err.Error())
	}
}
