package repositories

import (
	"database/sql"

	intconfig "ferry-backend/internal/config"
	"ferry-backend/internal/domain"
	"ferry-backend/internal/domain/models"
)

type BookingRepo struct {
	DB *sql.DB
}

func (r BookingRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const bookingSelectColumns = `id, reference, trip_id, pool, contact_name, contact_phone,
	passenger_count, total_amount_cents, status, created_by, refund_reason, refunded_at,
	created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (models.Booking, error) {
	var b models.Booking
	var pool, status string
	var createdBy sql.NullInt64
	var refundReason sql.NullString
	var refundedAt sql.NullTime
	err := row.Scan(
		&b.ID, &b.Reference, &b.TripID, &pool, &b.ContactName, &b.ContactPhone,
		&b.PassengerCount, &b.TotalAmountCents, &status, &createdBy, &refundReason, &refundedAt,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return b, err
	}
	b.Pool = domain.Pool(pool)
	b.Status = domain.BookingStatus(status)
	b.CreatedBy = createdBy.Int64
	b.RefundReason = refundReason.String
	if refundedAt.Valid {
		t := refundedAt.Time
		b.RefundedAt = &t
	}
	return b, nil
}

func (r BookingRepo) GetByReference(reference string) (models.Booking, error) {
	row := r.db().QueryRow(`SELECT `+bookingSelectColumns+` FROM bookings WHERE reference = ?`, reference)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return b, domain.NotFoundError{Resource: "booking", Err: err}
	}
	if err != nil {
		return b, domain.InternalError{Err: err}
	}
	return b, nil
}

func (r BookingRepo) GetByID(id int64) (models.Booking, error) {
	row := r.db().QueryRow(`SELECT `+bookingSelectColumns+` FROM bookings WHERE id = ?`, id)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return b, domain.NotFoundError{Resource: "booking", Err: err}
	}
	if err != nil {
		return b, domain.InternalError{Err: err}
	}
	return b, nil
}

// ListForManifest returns the trip's bookings in manifest statuses,
// ordered by creation so manifest sequence numbers stay stable.
func (r BookingRepo) ListForManifest(tripID int64) ([]models.Booking, error) {
	rows, err := r.db().Query(`
		SELECT `+bookingSelectColumns+`
		FROM bookings
		WHERE trip_id = ?
		  AND status IN ('confirmed', 'checked_in', 'boarded', 'completed')
		ORDER BY created_at, id`, tripID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return out, domain.InternalError{Err: err}
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListPassengers returns passenger details in stable index order.
func (r BookingRepo) ListPassengers(bookingID int64) ([]models.PassengerDetail, error) {
	rows, err := r.db().Query(`
		SELECT id, booking_id, passenger_index, full_name, fare_class, address, fare_cents
		FROM booking_passengers
		WHERE booking_id = ?
		ORDER BY passenger_index`, bookingID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.PassengerDetail{}
	for rows.Next() {
		var p models.PassengerDetail
		var class string
		if err := rows.Scan(&p.ID, &p.BookingID, &p.Index, &p.FullName, &class, &p.Address, &p.FareCents); err != nil {
			return out, domain.InternalError{Err: err}
		}
		p.FareClass = domain.FareClass(class)
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateStatus transitions a booking, guarded on the current status so a
// lost race shows up as zero rows instead of a silent overwrite.
func (r BookingRepo) UpdateStatus(id int64, from, to domain.BookingStatus) error {
	res, err := r.db().Exec(`UPDATE bookings SET status = ? WHERE id = ? AND status = ?`,
		string(to), id, string(from))
	if err != nil {
		return domain.InternalError{Err: err}
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ConflictError{Resource: "booking", Msg: "status changed concurrently"}
	}
	return nil
}

// MarkRefunded records the refund action with its reason.
func (r BookingRepo) MarkRefunded(id int64, from domain.BookingStatus, reason string) error {
	res, err := r.db().Exec(`
		UPDATE bookings
		SET status = 'refunded', refund_reason = ?, refunded_at = NOW()
		WHERE id = ? AND status = ?`, reason, id, string(from))
	if err != nil {
		return domain.InternalError{Err: err}
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ConflictError{Resource: "booking", Msg: "status changed concurrently"}
	}
	return nil
}
