package domain

import "testing"

func TestBookingTransitions(t *testing.T) {
	cases := []struct {
		from, to BookingStatus
		want     bool
	}{
		{BookingPendingPayment, BookingConfirmed, true},
		{BookingPendingPayment, BookingCancelled, true},
		{BookingPendingPayment, BookingCheckedIn, false},
		{BookingConfirmed, BookingCheckedIn, true},
		{BookingConfirmed, BookingRefunded, true},
		{BookingConfirmed, BookingBoarded, false},
		{BookingCheckedIn, BookingBoarded, true},
		{BookingBoarded, BookingCompleted, true},
		{BookingBoarded, BookingCheckedIn, false},
		{BookingCompleted, BookingRefunded, true},
		{BookingCancelled, BookingConfirmed, false},
		{BookingRefunded, BookingConfirmed, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTerminalBookingStatuses(t *testing.T) {
	for _, s := range []BookingStatus{BookingCancelled, BookingRefunded, BookingChanged} {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []BookingStatus{BookingPendingPayment, BookingConfirmed, BookingBoarded} {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestCountsTowardManifest(t *testing.T) {
	if BookingPendingPayment.CountsTowardManifest() {
		t.Error("pending_payment must not appear on the manifest")
	}
	if BookingCancelled.CountsTowardManifest() {
		t.Error("cancelled must not appear on the manifest")
	}
	for _, s := range []BookingStatus{BookingConfirmed, BookingCheckedIn, BookingBoarded, BookingCompleted} {
		if !s.CountsTowardManifest() {
			t.Errorf("%s should appear on the manifest", s)
		}
	}
}

func TestTripTransitions(t *testing.T) {
	cases := []struct {
		from, to TripStatus
		want     bool
	}{
		{TripScheduled, TripBoarding, true},
		{TripScheduled, TripArrived, false},
		{TripBoarding, TripDeparted, true},
		{TripDeparted, TripArrived, true},
		{TripDeparted, TripScheduled, false},
		{TripArrived, TripDeparted, false},
		{TripCancelled, TripScheduled, false},
		{TripDelayed, TripBoarding, true},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestParsePool(t *testing.T) {
	if p, ok := ParsePool(" Self_Service "); !ok || p != PoolSelfService {
		t.Errorf("ParsePool failed: %v %v", p, ok)
	}
	if _, ok := ParsePool("vip"); ok {
		t.Error("vip should not parse")
	}
}

func TestPoolColumns(t *testing.T) {
	if PoolSelfService.BookedColumn() != "self_service_booked" {
		t.Error("wrong self_service booked column")
	}
	if PoolStaffSold.QuotaColumn() != "staff_sold_quota" {
		t.Error("wrong staff_sold quota column")
	}
}

func TestParseFareClass(t *testing.T) {
	for _, s := range []string{"adult", "SENIOR", " pwd ", "child", "infant"} {
		if _, ok := ParseFareClass(s); !ok {
			t.Errorf("%q should parse", s)
		}
	}
	if _, ok := ParseFareClass("student"); ok {
		t.Error("student should not parse")
	}
}
