package repositories

import (
	"database/sql"

	intconfig "ferry-backend/internal/config"
	"ferry-backend/internal/domain"
	"ferry-backend/internal/domain/models"
)

type TicketRepo struct {
	DB *sql.DB
}

func (r TicketRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const ticketSelectColumns = `id, booking_id, passenger_index, ticket_number, status,
	checked_in_at, boarded_at, created_at`

func scanTicket(row interface{ Scan(...any) error }) (models.Ticket, error) {
	var t models.Ticket
	var status string
	var checkedIn, boarded sql.NullTime
	err := row.Scan(&t.ID, &t.BookingID, &t.PassengerIndex, &t.TicketNumber, &status,
		&checkedIn, &boarded, &t.CreatedAt)
	if err != nil {
		return t, err
	}
	t.Status = domain.TicketStatus(status)
	if checkedIn.Valid {
		v := checkedIn.Time
		t.CheckedInAt = &v
	}
	if boarded.Valid {
		v := boarded.Time
		t.BoardedAt = &v
	}
	return t, nil
}

func (r TicketRepo) GetByNumber(number string) (models.Ticket, error) {
	row := r.db().QueryRow(`SELECT `+ticketSelectColumns+` FROM tickets WHERE ticket_number = ?`, number)
	t, err := scanTicket(row)
	if err == sql.ErrNoRows {
		return t, domain.NotFoundError{Resource: "ticket", Err: err}
	}
	if err != nil {
		return t, domain.InternalError{Err: err}
	}
	return t, nil
}

func (r TicketRepo) ListByBooking(bookingID int64) ([]models.Ticket, error) {
	rows, err := r.db().Query(`
		SELECT `+ticketSelectColumns+`
		FROM tickets
		WHERE booking_id = ?
		ORDER BY passenger_index`, bookingID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return out, domain.InternalError{Err: err}
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// MarkCheckedIn stamps check-in, guarded on the confirmed status.
// Zero rows means the scan arrived out of order or twice.
func (r TicketRepo) MarkCheckedIn(id int64) (bool, error) {
	res, err := r.db().Exec(`
		UPDATE tickets SET status = 'checked_in', checked_in_at = NOW()
		WHERE id = ? AND status = 'confirmed'`, id)
	if err != nil {
		return false, domain.InternalError{Err: err}
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// MarkBoarded stamps boarding, guarded on checked_in.
func (r TicketRepo) MarkBoarded(id int64) (bool, error) {
	res, err := r.db().Exec(`
		UPDATE tickets SET status = 'boarded', boarded_at = NOW()
		WHERE id = ? AND status = 'checked_in'`, id)
	if err != nil {
		return false, domain.InternalError{Err: err}
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// UpdateStatusByBooking moves every ticket of a booking from one status
// to another (payment confirmation, cancel, refund, completion).
func (r TicketRepo) UpdateStatusByBooking(bookingID int64, from, to domain.TicketStatus) error {
	_, err := r.db().Exec(`UPDATE tickets SET status = ? WHERE booking_id = ? AND status = ?`,
		string(to), bookingID, string(from))
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

// CountNotInStatus reports how many of a booking's tickets have not yet
// reached the given status; zero means the whole party has.
func (r TicketRepo) CountNotInStatus(bookingID int64, status domain.TicketStatus) (int, error) {
	var n int
	err := r.db().QueryRow(`SELECT COUNT(*) FROM tickets WHERE booking_id = ? AND status <> ?`,
		bookingID, string(status)).Scan(&n)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return n, nil
}
