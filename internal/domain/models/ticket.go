package models

import (
	"time"

	"ferry-backend/internal/domain"
)

// Ticket is one passenger's boarding document. TicketNumber is unique
// across the whole system and assigned exactly once.
type Ticket struct {
	ID             int64
	BookingID      int64
	PassengerIndex int
	TicketNumber   string
	Status         domain.TicketStatus
	CheckedInAt    *time.Time
	BoardedAt      *time.Time
	CreatedAt      time.Time
}
