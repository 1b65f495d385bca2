package models

import "time"

// User is a staff account. Authorization decisions live in the HTTP
// layer; the core only records creator identity on bookings.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string // staff | operator | admin
	CreatedAt    time.Time
}
