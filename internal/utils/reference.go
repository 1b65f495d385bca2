package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Excludes 0/O/1/I so a reference read over the phone survives the trip.
const referenceCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewBookingReference generates a human-readable booking reference like
// FB-20260828-K7Q2M. Uniqueness is enforced by the bookings unique index;
// callers retry on a duplicate-key error.
func NewBookingReference(now time.Time) string {
	var suffix strings.Builder
	for i := 0; i < 5; i++ {
		suffix.WriteByte(referenceCharset[rand.Intn(len(referenceCharset))])
	}
	return "FB-" + now.Format("20060102") + "-" + suffix.String()
}

// FormatTicketNumber renders a sequence value as the printed ticket
// number, e.g. 123 -> FT-00000123. Sequence values never repeat for the
// lifetime of the system.
func FormatTicketNumber(seq int64) string {
	return fmt.Sprintf("FT-%08d", seq)
}
