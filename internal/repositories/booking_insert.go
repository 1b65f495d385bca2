package repositories

import (
	"database/sql"

	"ferry-backend/internal/db"
	"ferry-backend/internal/domain/models"
)

// InsertBooking writes the booking row inside the caller's transaction.
// A duplicate reference surfaces as MySQL error 1062 for the caller to
// retry with a fresh reference.
func (r BookingRepo) InsertBooking(tx *sql.Tx, b models.Booking) (int64, error) {
	res, err := tx.Exec(`
		INSERT INTO bookings
		(reference, trip_id, pool, contact_name, contact_phone, passenger_count,
		 total_amount_cents, status, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())`,
		b.Reference, b.TripID, string(b.Pool), b.ContactName, b.ContactPhone,
		b.PassengerCount, b.TotalAmountCents, string(b.Status), db.NullIfZero(b.CreatedBy))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// InsertPassengers writes the per-passenger detail rows with their
// independently rounded, locked fares.
func (r BookingRepo) InsertPassengers(tx *sql.Tx, bookingID int64, passengers []models.PassengerDetail) error {
	for _, p := range passengers {
		_, err := tx.Exec(`
			INSERT INTO booking_passengers
			(booking_id, passenger_index, full_name, fare_class, address, fare_cents)
			VALUES (?, ?, ?, ?, ?, ?)`,
			bookingID, p.Index, p.FullName, string(p.FareClass), p.Address, p.FareCents)
		if err != nil {
			return err
		}
	}
	return nil
}

// CompleteBoarded marks every boarded booking on an arrived trip as
// completed.
func (r BookingRepo) CompleteBoarded(tripID int64) error {
	_, err := r.db().Exec(`
		UPDATE bookings SET status = 'completed' WHERE trip_id = ? AND status = 'boarded'`, tripID)
	return err
}
