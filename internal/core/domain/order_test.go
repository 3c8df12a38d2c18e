package domain

import "testing"

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{StatusPending, StatusPaid, true},
		{StatusPaid, StatusShipped, true},
		{StatusShipped, StatusCompleted, true},
		// no skipping forward
		{StatusPending, StatusShipped, false},
		{StatusPending, StatusCompleted, false},
		{StatusPaid, StatusCompleted, false},
		// no moving backward
		{StatusPaid, StatusPending, false},
		{StatusShipped, StatusPaid, false},
		{StatusCompleted, StatusShipped, false},
		// no self transitions
		{StatusPaid, StatusPaid, false},
		{StatusCompleted, StatusCompleted, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestOrderStatus_Cancellable(t *testing.T) {
	if !StatusPending.Cancellable() {
		t.Fatalf("pending orders must be cancellable")
	}
	for _, s := range []OrderStatus{StatusPaid, StatusShipped, StatusCompleted} {
		if s.Cancellable() {
			t.Errorf("%s orders must not be cancellable", s)
		}
	}
}

func TestOrderStatus_Valid(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusPaid, StatusShipped, StatusCompleted} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if OrderStatus("Refunded").Valid() {
		t.Errorf("unknown status should be invalid")
	}
}
