package models

import "time"

// FareRule is immutable once created; newer rules supersede older ones,
// nothing is ever mutated in place.
type FareRule struct {
	ID              int64
	RouteID         int64
	BaseFareCents   int64
	DiscountPercent int
	ValidFrom       string // YYYY-MM-DD
	ValidUntil      string // YYYY-MM-DD, empty = open-ended
	CreatedAt       time.Time
}

// Fare is the resolved (base, discount) pair in effect for a route on a
// given date, either from a rule or from the configured system default.
type Fare struct {
	BaseFareCents   int64
	DiscountPercent int
	RuleID          int64 // 0 when the system default was used
}
