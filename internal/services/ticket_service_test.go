package services

import (
	"testing"
	"time"

	"ferry-backend/internal/domain"
	"ferry-backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ticketColumns() []string {
	return []string{"id", "booking_id", "passenger_index", "ticket_number", "status",
		"checked_in_at", "boarded_at", "created_at"}
}

func TestCheckInAdvancesTicketAndBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM tickets WHERE ticket_number`).
		WithArgs("FT-00000041").
		WillReturnRows(sqlmock.NewRows(ticketColumns()).
			AddRow(81, 31, 0, "FT-00000041", "confirmed", nil, nil, now))
	mock.ExpectExec(`UPDATE tickets SET status = 'checked_in'`).
		WithArgs(int64(81)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// The whole party is now checked in, so the booking follows.
	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs(int64(31), "checked_in").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE bookings SET status`).
		WithArgs("checked_in", int64(31), "confirmed").
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery(`FROM tickets WHERE ticket_number`).
		WithArgs("FT-00000041").
		WillReturnRows(sqlmock.NewRows(ticketColumns()).
			AddRow(81, 31, 0, "FT-00000041", "checked_in", now, nil, now))

	svc := TicketService{
		Tickets:  repositories.TicketRepo{DB: db},
		Bookings: repositories.BookingRepo{DB: db},
	}
	ticket, err := svc.CheckIn("FT-00000041")
	require.NoError(t, err)

	assert.Equal(t, domain.TicketCheckedIn, ticket.Status)
	require.NotNil(t, ticket.CheckedInAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInLeavesBookingWhenPartyIncomplete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM tickets WHERE ticket_number`).
		WithArgs("FT-00000041").
		WillReturnRows(sqlmock.NewRows(ticketColumns()).
			AddRow(81, 31, 0, "FT-00000041", "confirmed", nil, nil, now))
	mock.ExpectExec(`UPDATE tickets SET status = 'checked_in'`).
		WithArgs(int64(81)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs(int64(31), "checked_in").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`FROM tickets WHERE ticket_number`).
		WithArgs("FT-00000041").
		WillReturnRows(sqlmock.NewRows(ticketColumns()).
			AddRow(81, 31, 0, "FT-00000041", "checked_in", now, nil, now))

	svc := TicketService{
		Tickets:  repositories.TicketRepo{DB: db},
		Bookings: repositories.BookingRepo{DB: db},
	}
	_, err = svc.CheckIn("FT-00000041")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardBeforeCheckInIsRejected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Confirmed but never checked in: the gangway scan must refuse.
	mock.ExpectQuery(`FROM tickets WHERE ticket_number`).
		WithArgs("FT-00000041").
		WillReturnRows(sqlmock.NewRows(ticketColumns()).
			AddRow(81, 31, 0, "FT-00000041", "confirmed", nil, nil, time.Now()))

	svc := TicketService{
		Tickets:  repositories.TicketRepo{DB: db},
		Bookings: repositories.BookingRepo{DB: db},
	}
	_, err = svc.Board("FT-00000041")

	require.Error(t, err)
	assert.True(t, domain.IsSequencing(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDuplicateCheckInIsRejected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM tickets WHERE ticket_number`).
		WithArgs("FT-00000041").
		WillReturnRows(sqlmock.NewRows(ticketColumns()).
			AddRow(81, 31, 0, "FT-00000041", "checked_in", now, nil, now))

	svc := TicketService{
		Tickets:  repositories.TicketRepo{DB: db},
		Bookings: repositories.BookingRepo{DB: db},
	}
	_, err = svc.CheckIn("FT-00000041")

	require.Error(t, err)
	assert.True(t, domain.IsSequencing(err))
}

func TestCheckInLostRaceIsRejected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM tickets WHERE ticket_number`).
		WithArgs("FT-00000041").
		WillReturnRows(sqlmock.NewRows(ticketColumns()).
			AddRow(81, 31, 0, "FT-00000041", "confirmed", nil, nil, time.Now()))
	// Another scan got there between the read and the guarded update.
	mock.ExpectExec(`UPDATE tickets SET status = 'checked_in'`).
		WithArgs(int64(81)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	svc := TicketService{
		Tickets:  repositories.TicketRepo{DB: db},
		Bookings: repositories.BookingRepo{DB: db},
	}
	_, err = svc.CheckIn("FT-00000041")

	require.Error(t, err)
	assert.True(t, domain.IsSequencing(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnknownTicketIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM tickets WHERE ticket_number`).
		WithArgs("FT-99999999").
		WillReturnRows(sqlmock.NewRows(ticketColumns()))

	svc := TicketService{
		Tickets:  repositories.TicketRepo{DB: db},
		Bookings: repositories.BookingRepo{DB: db},
	}
	_, err = svc.Board("FT-99999999")

	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}
