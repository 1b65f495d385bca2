package services

import (
	"database/sql"
	"fmt"

	intconfig "ferry-backend/internal/config"
	"ferry-backend/internal/domain"
	"ferry-backend/internal/utils"
	"ferry-backend/monitoring"
)

// LedgerService is the single authority over the two seat counters on a
// trip. Every admit/reject decision runs as a transactional
// read-check-write on the locked trip row, so two reservations that
// would jointly exceed quota can never both succeed.
type LedgerService struct {
	DB        *sql.DB
	RequestID string
}

func (s LedgerService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

// Reservation is the handle returned by Reserve. Releasing it more than
// once is a no-op.
type Reservation struct {
	TripID   int64
	Pool     domain.Pool
	Count    int
	released bool
}

// Reserve atomically admits count passengers into the trip's pool, or
// rejects with a CapacityError carrying the seats actually left. The trip
// row is locked FOR UPDATE for the duration of the check-and-increment.
func (s *LedgerService) Reserve(tripID int64, pool domain.Pool, count int) (*Reservation, error) {
	if count <= 0 {
		return nil, domain.ValidationError{Field: "passenger_count", Msg: "must be positive"}
	}

	tx, err := s.db().Begin()
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	var status string
	var quota, booked int
	err = tx.QueryRow(
		`SELECT status, `+pool.QuotaColumn()+`, `+pool.BookedColumn()+` FROM trips WHERE id = ? FOR UPDATE`,
		tripID,
	).Scan(&status, &quota, &booked)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundError{Resource: "trip", Err: err}
	}
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}

	if domain.TripStatus(status) != domain.TripScheduled {
		return nil, domain.ConflictError{Resource: "trip", Msg: fmt.Sprintf("not open for booking (status %s)", status)}
	}

	available := quota - booked
	if available < count {
		monitoring.CapacityRejected(string(pool))
		return nil, domain.CapacityError{TripID: tripID, Pool: pool, Requested: count, Available: available}
	}

	if _, err := tx.Exec(
		`UPDATE trips SET `+pool.BookedColumn()+` = `+pool.BookedColumn()+` + ? WHERE id = ?`,
		count, tripID,
	); err != nil {
		return nil, domain.InternalError{Err: err}
	}

	if err := tx.Commit(); err != nil {
		return nil, domain.InternalError{Err: err}
	}

	return &Reservation{TripID: tripID, Pool: pool, Count: count}, nil
}

// Release reverses a reservation after a later step failed. Idempotent:
// a handle releases at most once, and the SQL clamps the counter at zero.
func (s *LedgerService) Release(res *Reservation) error {
	if res == nil || res.released {
		return nil
	}
	if err := s.releaseSeats(res.TripID, res.Pool, res.Count); err != nil {
		return err
	}
	res.released = true
	utils.LogEvent(s.RequestID, "ledger", "release",
		fmt.Sprintf("trip=%d pool=%s count=%d", res.TripID, res.Pool, res.Count))
	return nil
}

// ReleaseSeats hands seats back to the pool when a booking is cancelled
// or refunded.
func (s *LedgerService) ReleaseSeats(tripID int64, pool domain.Pool, count int) error {
	return s.releaseSeats(tripID, pool, count)
}

func (s *LedgerService) releaseSeats(tripID int64, pool domain.Pool, count int) error {
	if count <= 0 {
		return nil
	}
	col := pool.BookedColumn()
	_, err := s.db().Exec(
		`UPDATE trips SET `+col+` = GREATEST(`+col+` - ?, 0) WHERE id = ?`,
		count, tripID,
	)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

// Adjust shrinks a pool's booked counter during reconciliation. Delta
// must be negative, and the result may never drop below floor — the
// number of currently named passengers in that pool. This is the only
// sanctioned way to move a booked counter down outside release.
func (s *LedgerService) Adjust(tripID int64, pool domain.Pool, delta, floor int) error {
	if delta >= 0 {
		return domain.ValidationError{Field: "delta", Msg: "adjust can only move the counter down"}
	}

	tx, err := s.db().Begin()
	if err != nil {
		return domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	var booked int
	err = tx.QueryRow(
		`SELECT `+pool.BookedColumn()+` FROM trips WHERE id = ? FOR UPDATE`, tripID,
	).Scan(&booked)
	if err == sql.ErrNoRows {
		return domain.NotFoundError{Resource: "trip", Err: err}
	}
	if err != nil {
		return domain.InternalError{Err: err}
	}

	next := booked + delta
	if next < floor {
		return domain.ConflictError{
			Resource: "trip",
			Msg:      fmt.Sprintf("adjustment would drop booked below named passengers (%d < %d)", next, floor),
		}
	}

	if _, err := tx.Exec(
		`UPDATE trips SET `+pool.BookedColumn()+` = ? WHERE id = ?`, next, tripID,
	); err != nil {
		return domain.InternalError{Err: err}
	}

	if err := tx.Commit(); err != nil {
		return domain.InternalError{Err: err}
	}

	utils.LogEvent(s.RequestID, "ledger", "adjust",
		fmt.Sprintf("trip=%d pool=%s delta=%d booked=%d", tripID, pool, delta, next))
	return nil
}
