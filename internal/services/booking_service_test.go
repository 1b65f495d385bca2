package services

import (
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"ferry-backend/internal/domain"
	"ferry-backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBookingService(db *sql.DB, now time.Time) BookingService {
	return BookingService{
		Trips:    repositories.TripRepo{DB: db},
		Bookings: repositories.BookingRepo{DB: db},
		Tickets:  repositories.TicketRepo{DB: db},
		Fares: FareService{
			FareRules: repositories.FareRuleRepo{DB: db},
		},
		Ledger:  &LedgerService{DB: db},
		DB:      db,
		MinLead: time.Hour,
		Now:     func() time.Time { return now },
	}
}

func tripColumns() []string {
	return []string{
		"id", "vessel_id", "route_id", "trip_date", "trip_time",
		"self_service_quota", "self_service_booked", "staff_sold_quota", "staff_sold_booked",
		"status", "created_at", "name", "origin", "destination",
	}
}

func fareRuleColumns() []string {
	return []string{"id", "route_id", "base_fare_cents", "discount_percent", "valid_from", "valid_until", "created_at"}
}

func bookingColumns() []string {
	return []string{
		"id", "reference", "trip_id", "pool", "contact_name", "contact_phone",
		"passenger_count", "total_amount_cents", "status", "created_by", "refund_reason", "refunded_at",
		"created_at", "updated_at",
	}
}

func TestCreateBookingIssuesTicketsAtomically(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.Local)

	mock.ExpectQuery(`FROM trips t`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(tripColumns()).
			AddRow(7, 2, 4, "2027-01-15", "08:30", 40, 10, 20, 0, "scheduled", now, "MV Santa Clara", "Batangas", "Calapan"))

	mock.ExpectQuery(`FROM fare_rules`).
		WithArgs(int64(4), "2026-08-28", "2026-08-28").
		WillReturnRows(sqlmock.NewRows(fareRuleColumns()).
			AddRow(9, 4, 55000, 20, "2026-01-01", nil, now))

	// Seat reservation in its own transaction.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status, self_service_quota, self_service_booked FROM trips`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "self_service_quota", "self_service_booked"}).
			AddRow("scheduled", 40, 10))
	mock.ExpectExec(`UPDATE trips SET self_service_booked = self_service_booked`).
		WithArgs(2, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Booking, passengers and tickets commit together.
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(sqlmock.AnyArg(), int64(7), "self_service", "Maria Santos", "0917-555-0101",
			2, int64(99000), "pending_payment", nil).
		WillReturnResult(sqlmock.NewResult(31, 1))
	mock.ExpectExec(`INSERT INTO booking_passengers`).
		WithArgs(int64(31), 0, "Maria Santos", "adult", "", int64(55000)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO booking_passengers`).
		WithArgs(int64(31), 1, "Jose Santos", "senior", "", int64(44000)).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectQuery(`SELECT next_value FROM ticket_sequence`).
		WillReturnRows(sqlmock.NewRows([]string{"next_value"}).AddRow(41))
	mock.ExpectExec(`UPDATE ticket_sequence SET next_value`).
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO tickets`).
		WithArgs(int64(31), 0, "FT-00000041", "pending_payment").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO tickets`).
		WithArgs(int64(31), 1, "FT-00000042", "pending_payment").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	svc := testBookingService(db, now)
	booking, err := svc.Create(CreateBookingInput{
		TripID:       7,
		Pool:         "self_service",
		ContactName:  "Maria Santos",
		ContactPhone: "0917-555-0101",
		Passengers: []PassengerInput{
			{FullName: "Maria Santos", FareClass: "adult"},
			{FullName: "Jose Santos", FareClass: "senior"},
		},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(booking.Reference, "FB-20260828-"), "reference %q", booking.Reference)
	assert.Equal(t, domain.BookingPendingPayment, booking.Status)
	assert.Equal(t, int64(99000), booking.TotalAmountCents)
	assert.Equal(t, 2, booking.PassengerCount)
	require.Len(t, booking.Passengers, 2)
	assert.Equal(t, int64(55000), booking.Passengers[0].FareCents)
	assert.Equal(t, int64(44000), booking.Passengers[1].FareCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWalkInWithoutNamesIsConfirmed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.Local)

	// Departure in 30 minutes: too soon for online, fine for the counter.
	mock.ExpectQuery(`FROM trips t`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(tripColumns()).
			AddRow(7, 2, 4, "2026-08-28", "10:30", 40, 10, 20, 5, "scheduled", now, "MV Santa Clara", "Batangas", "Calapan"))

	mock.ExpectQuery(`FROM fare_rules`).
		WillReturnRows(sqlmock.NewRows(fareRuleColumns()).
			AddRow(9, 4, 55000, 0, "2026-01-01", nil, now))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status, staff_sold_quota, staff_sold_booked FROM trips`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "staff_sold_quota", "staff_sold_booked"}).
			AddRow("scheduled", 20, 5))
	mock.ExpectExec(`UPDATE trips SET staff_sold_booked = staff_sold_booked`).
		WithArgs(3, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(sqlmock.AnyArg(), int64(7), "staff_sold", "Counter Sale", "",
			3, int64(165000), "confirmed", int64(12)).
		WillReturnResult(sqlmock.NewResult(32, 1))
	mock.ExpectQuery(`SELECT next_value FROM ticket_sequence`).
		WillReturnRows(sqlmock.NewRows([]string{"next_value"}).AddRow(50))
	mock.ExpectExec(`UPDATE ticket_sequence SET next_value`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	for i := 0; i < 3; i++ {
		mock.ExpectExec(`INSERT INTO tickets`).
			WillReturnResult(sqlmock.NewResult(int64(i+1), 1))
	}
	mock.ExpectCommit()

	svc := testBookingService(db, now)
	booking, err := svc.Create(CreateBookingInput{
		TripID:         7,
		Pool:           "staff_sold",
		ContactName:    "Counter Sale",
		FareClass:      "adult",
		PassengerCount: 3,
		CreatedBy:      12,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.BookingConfirmed, booking.Status)
	assert.Equal(t, 3, booking.PassengerCount)
	assert.Empty(t, booking.Passengers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReleasesSeatsWhenPersistFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.Local)

	mock.ExpectQuery(`FROM trips t`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(tripColumns()).
			AddRow(7, 2, 4, "2027-01-15", "08:30", 40, 10, 20, 0, "scheduled", now, "MV Santa Clara", "Batangas", "Calapan"))

	mock.ExpectQuery(`FROM fare_rules`).
		WillReturnRows(sqlmock.NewRows(fareRuleColumns()).
			AddRow(9, 4, 55000, 20, "2026-01-01", nil, now))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status, self_service_quota, self_service_booked FROM trips`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "self_service_quota", "self_service_booked"}).
			AddRow("scheduled", 40, 10))
	mock.ExpectExec(`UPDATE trips SET self_service_booked = self_service_booked`).
		WithArgs(1, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO bookings`).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	// The failed persist hands the seat straight back.
	mock.ExpectExec(`UPDATE trips SET self_service_booked = GREATEST`).
		WithArgs(1, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := testBookingService(db, now)
	_, err = svc.Create(CreateBookingInput{
		TripID:      7,
		Pool:        "self_service",
		ContactName: "Maria Santos",
		Passengers:  []PassengerInput{{FullName: "Maria Santos", FareClass: "adult"}},
	})

	require.Error(t, err)
	assert.True(t, domain.IsInternal(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateValidatesBeforeAnySideEffect(t *testing.T) {
	svc := BookingService{}

	_, err := svc.Create(CreateBookingInput{TripID: 7, Pool: "vip", ContactName: "X",
		FareClass: "adult", PassengerCount: 1})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Create(CreateBookingInput{TripID: 7, Pool: "self_service",
		FareClass: "adult", PassengerCount: 1})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Create(CreateBookingInput{TripID: 7, Pool: "self_service", ContactName: "X",
		Passengers: []PassengerInput{{FullName: "", FareClass: "adult"}}})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Create(CreateBookingInput{TripID: 7, Pool: "self_service", ContactName: "X",
		FareClass: "adult", PassengerCount: 0})
	assert.True(t, domain.IsValidation(err))
}

func TestCreateRejectsSelfServiceTooCloseToDeparture(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.Local)

	mock.ExpectQuery(`FROM trips t`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(tripColumns()).
			AddRow(7, 2, 4, "2026-08-28", "10:30", 40, 10, 20, 0, "scheduled", now, "MV Santa Clara", "Batangas", "Calapan"))

	svc := testBookingService(db, now)
	_, err = svc.Create(CreateBookingInput{
		TripID:      7,
		Pool:        "self_service",
		ContactName: "Maria Santos",
		Passengers:  []PassengerInput{{FullName: "Maria Santos", FareClass: "adult"}},
	})

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPaymentMovesBookingAndTickets(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM bookings WHERE reference`).
		WithArgs("FB-20260828-K7Q2M").
		WillReturnRows(sqlmock.NewRows(bookingColumns()).
			AddRow(31, "FB-20260828-K7Q2M", 7, "self_service", "Maria Santos", "0917",
				2, 99000, "pending_payment", nil, nil, nil, now, now))
	mock.ExpectExec(`UPDATE bookings SET status`).
		WithArgs("confirmed", int64(31), "pending_payment").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE tickets SET status`).
		WithArgs("confirmed", int64(31), "pending_payment").
		WillReturnResult(sqlmock.NewResult(0, 2))

	svc := testBookingService(db, now)
	b, err := svc.ConfirmPayment("FB-20260828-K7Q2M")
	require.NoError(t, err)

	assert.Equal(t, domain.BookingConfirmed, b.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPaymentTwiceIsRejected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM bookings WHERE reference`).
		WithArgs("FB-20260828-K7Q2M").
		WillReturnRows(sqlmock.NewRows(bookingColumns()).
			AddRow(31, "FB-20260828-K7Q2M", 7, "self_service", "Maria Santos", "0917",
				2, 99000, "confirmed", nil, nil, nil, now, now))

	svc := testBookingService(db, now)
	_, err = svc.ConfirmPayment("FB-20260828-K7Q2M")

	require.Error(t, err)
	assert.True(t, domain.IsSequencing(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelReleasesSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM bookings WHERE reference`).
		WithArgs("FB-20260828-K7Q2M").
		WillReturnRows(sqlmock.NewRows(bookingColumns()).
			AddRow(31, "FB-20260828-K7Q2M", 7, "self_service", "Maria Santos", "0917",
				2, 99000, "pending_payment", nil, nil, nil, now, now))
	mock.ExpectExec(`UPDATE bookings SET status`).
		WithArgs("cancelled", int64(31), "pending_payment").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE tickets SET status`).
		WithArgs("cancelled", int64(31)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE trips SET self_service_booked = GREATEST`).
		WithArgs(2, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := testBookingService(db, now)
	b, err := svc.Cancel("FB-20260828-K7Q2M")
	require.NoError(t, err)

	assert.Equal(t, domain.BookingCancelled, b.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelConfirmedBookingIsRejected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM bookings WHERE reference`).
		WithArgs("FB-20260828-K7Q2M").
		WillReturnRows(sqlmock.NewRows(bookingColumns()).
			AddRow(31, "FB-20260828-K7Q2M", 7, "self_service", "Maria Santos", "0917",
				2, 99000, "confirmed", nil, nil, nil, now, now))

	svc := testBookingService(db, now)
	_, err = svc.Cancel("FB-20260828-K7Q2M")

	require.Error(t, err)
	assert.True(t, domain.IsSequencing(err))
}

func TestRefundReleasesSeatsAndRecordsReason(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM bookings WHERE reference`).
		WithArgs("FB-20260828-K7Q2M").
		WillReturnRows(sqlmock.NewRows(bookingColumns()).
			AddRow(31, "FB-20260828-K7Q2M", 7, "staff_sold", "Counter Sale", "",
				3, 165000, "confirmed", 12, nil, nil, now, now))
	mock.ExpectExec(`UPDATE bookings`).
		WithArgs("vessel breakdown", int64(31), "confirmed").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE tickets SET status`).
		WithArgs("refunded", int64(31)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`UPDATE trips SET staff_sold_booked = GREATEST`).
		WithArgs(3, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := testBookingService(db, now)
	b, err := svc.Refund("FB-20260828-K7Q2M", "vessel breakdown")
	require.NoError(t, err)

	assert.Equal(t, domain.BookingRefunded, b.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeMovesPartyToAnotherTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.Local)

	mock.ExpectQuery(`FROM bookings WHERE reference`).
		WithArgs("FB-20260828-K7Q2M").
		WillReturnRows(sqlmock.NewRows(bookingColumns()).
			AddRow(31, "FB-20260828-K7Q2M", 7, "self_service", "Maria Santos", "0917",
				2, 99000, "confirmed", nil, nil, nil, now, now))

	mock.ExpectQuery(`FROM trips t`).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows(tripColumns()).
			AddRow(8, 2, 4, "2027-01-16", "08:30", 40, 0, 20, 0, "scheduled", now,
				"MV Santa Clara", "Batangas", "Calapan"))

	mock.ExpectQuery(`FROM booking_passengers`).
		WithArgs(int64(31)).
		WillReturnRows(sqlmock.NewRows(passengerColumns()).
			AddRow(1, 31, 0, "Maria Santos", "adult", "", 55000).
			AddRow(2, 31, 1, "Jose Santos", "senior", "", 44000))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status, self_service_quota, self_service_booked FROM trips`).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "self_service_quota", "self_service_booked"}).
			AddRow("scheduled", 40, 0))
	mock.ExpectExec(`UPDATE trips SET self_service_booked = self_service_booked`).
		WithArgs(2, int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(sqlmock.AnyArg(), int64(8), "self_service", "Maria Santos", "0917",
			2, int64(99000), "confirmed", nil).
		WillReturnResult(sqlmock.NewResult(45, 1))
	mock.ExpectExec(`INSERT INTO booking_passengers`).
		WithArgs(int64(45), 0, "Maria Santos", "adult", "", int64(55000)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO booking_passengers`).
		WithArgs(int64(45), 1, "Jose Santos", "senior", "", int64(44000)).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectQuery(`SELECT next_value FROM ticket_sequence`).
		WillReturnRows(sqlmock.NewRows([]string{"next_value"}).AddRow(60))
	mock.ExpectExec(`UPDATE ticket_sequence SET next_value`).
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO tickets`).
		WithArgs(int64(45), 0, "FT-00000060", "confirmed").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO tickets`).
		WithArgs(int64(45), 1, "FT-00000061", "confirmed").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	// Old booking retires and hands its seats back.
	mock.ExpectExec(`UPDATE bookings SET status`).
		WithArgs("changed", int64(31), "confirmed").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE tickets SET status`).
		WithArgs("cancelled", int64(31)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE trips SET self_service_booked = GREATEST`).
		WithArgs(2, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := testBookingService(db, now)
	b, err := svc.Change("FB-20260828-K7Q2M", 8)
	require.NoError(t, err)

	assert.Equal(t, int64(8), b.TripID)
	assert.Equal(t, domain.BookingConfirmed, b.Status)
	assert.Equal(t, int64(99000), b.TotalAmountCents)
	assert.True(t, strings.HasPrefix(b.Reference, "FB-20260828-"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeRejectsFullTargetTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.Local)

	mock.ExpectQuery(`FROM bookings WHERE reference`).
		WithArgs("FB-20260828-K7Q2M").
		WillReturnRows(sqlmock.NewRows(bookingColumns()).
			AddRow(31, "FB-20260828-K7Q2M", 7, "self_service", "Maria Santos", "0917",
				2, 99000, "confirmed", nil, nil, nil, now, now))
	mock.ExpectQuery(`FROM trips t`).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows(tripColumns()).
			AddRow(8, 2, 4, "2027-01-16", "08:30", 40, 39, 20, 0, "scheduled", now,
				"MV Santa Clara", "Batangas", "Calapan"))
	mock.ExpectQuery(`FROM booking_passengers`).
		WithArgs(int64(31)).
		WillReturnRows(sqlmock.NewRows(passengerColumns()))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status, self_service_quota, self_service_booked FROM trips`).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "self_service_quota", "self_service_booked"}).
			AddRow("scheduled", 40, 39))
	mock.ExpectRollback()

	svc := testBookingService(db, now)
	_, err = svc.Change("FB-20260828-K7Q2M", 8)

	var capErr domain.CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 1, capErr.Available)
	assert.NoError(t, mock.ExpectationsWereMet())
}
