package repositories

import (
	"database/sql"

	intconfig "ferry-backend/internal/config"
	"ferry-backend/internal/domain"
	"ferry-backend/internal/domain/models"
)

type TripRepo struct {
	DB *sql.DB
}

func (r TripRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const tripSelectColumns = `t.id, t.vessel_id, t.route_id, t.trip_date, t.trip_time,
	t.self_service_quota, t.self_service_booked, t.staff_sold_quota, t.staff_sold_booked,
	t.status, t.created_at, v.name, rt.origin, rt.destination`

func scanTrip(row interface{ Scan(...any) error }) (models.Trip, error) {
	var t models.Trip
	var status string
	err := row.Scan(
		&t.ID, &t.VesselID, &t.RouteID, &t.TripDate, &t.TripTime,
		&t.SelfServiceQuota, &t.SelfServiceBooked, &t.StaffSoldQuota, &t.StaffSoldBooked,
		&status, &t.CreatedAt, &t.VesselName, &t.RouteOrigin, &t.RouteDestination,
	)
	if err != nil {
		return t, err
	}
	t.Status = domain.TripStatus(status)
	return t, nil
}

func (r TripRepo) GetByID(id int64) (models.Trip, error) {
	row := r.db().QueryRow(`
		SELECT `+tripSelectColumns+`
		FROM trips t
		JOIN vessels v ON v.id = t.vessel_id
		JOIN routes rt ON rt.id = t.route_id
		WHERE t.id = ?`, id)
	t, err := scanTrip(row)
	if err == sql.ErrNoRows {
		return t, domain.NotFoundError{Resource: "trip", Err: err}
	}
	if err != nil {
		return t, domain.InternalError{Err: err}
	}
	return t, nil
}

// List returns trips, optionally filtered by date (YYYY-MM-DD).
func (r TripRepo) List(date string) ([]models.Trip, error) {
	query := `
		SELECT ` + tripSelectColumns + `
		FROM trips t
		JOIN vessels v ON v.id = t.vessel_id
		JOIN routes rt ON rt.id = t.route_id`
	args := []any{}
	if date != "" {
		query += ` WHERE t.trip_date = ?`
		args = append(args, date)
	}
	query += ` ORDER BY t.trip_date, t.trip_time, t.id`

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return out, domain.InternalError{Err: err}
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpdateStatus moves a trip between lifecycle states. The WHERE guard on
// the current status makes concurrent updates lose cleanly instead of
// clobbering each other.
func (r TripRepo) UpdateStatus(id int64, from, to domain.TripStatus) error {
	res, err := r.db().Exec(`UPDATE trips SET status = ? WHERE id = ? AND status = ?`, string(to), id, string(from))
	if err != nil {
		return domain.InternalError{Err: err}
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ConflictError{Resource: "trip", Msg: "status changed concurrently"}
	}
	return nil
}
