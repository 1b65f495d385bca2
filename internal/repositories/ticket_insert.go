package repositories

import (
	"database/sql"
	"fmt"

	"ferry-backend/internal/domain/models"
)

// AllocateTicketNumbers reserves a block of n sequence values inside the
// caller's transaction and returns the first. The single-row sequence
// table is locked FOR UPDATE, so blocks never overlap and numbers never
// repeat, even across concurrent bookings.
func (r TicketRepo) AllocateTicketNumbers(tx *sql.Tx, n int) (int64, error) {
	if n <= 0 {
		return 0, fmt.Errorf("invalid allocation size %d", n)
	}
	var next int64
	if err := tx.QueryRow(`SELECT next_value FROM ticket_sequence WHERE id = 1 FOR UPDATE`).Scan(&next); err != nil {
		return 0, err
	}
	if _, err := tx.Exec(`UPDATE ticket_sequence SET next_value = next_value + ? WHERE id = 1`, n); err != nil {
		return 0, err
	}
	return next, nil
}

// InsertTickets writes a booking's tickets inside the caller's
// transaction; all of them commit together or none do.
func (r TicketRepo) InsertTickets(tx *sql.Tx, tickets []models.Ticket) error {
	for _, t := range tickets {
		_, err := tx.Exec(`
			INSERT INTO tickets (booking_id, passenger_index, ticket_number, status, created_at)
			VALUES (?, ?, ?, ?, NOW())`,
			t.BookingID, t.PassengerIndex, t.TicketNumber, string(t.Status))
		if err != nil {
			return err
		}
	}
	return nil
}

// TerminateByBooking moves every non-terminal ticket of a booking to a
// terminal status (cancel or refund).
func (r TicketRepo) TerminateByBooking(bookingID int64, to string) error {
	_, err := r.db().Exec(`
		UPDATE tickets SET status = ?
		WHERE booking_id = ? AND status NOT IN ('cancelled', 'refunded')`, to, bookingID)
	return err
}

// CompleteBoardedByTrip marks boarded tickets completed when their trip
// arrives.
func (r TicketRepo) CompleteBoardedByTrip(tripID int64) error {
	_, err := r.db().Exec(`
		UPDATE tickets t
		JOIN bookings b ON b.id = t.booking_id
		SET t.status = 'completed'
		WHERE b.trip_id = ? AND t.status = 'boarded'`, tripID)
	return err
}
