package domain

import (
	"testing"
	"time"
)

var statusNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)

func dep(lifecycle Lifecycle, when time.Time, capacity, occupied int) Departure {
	return Departure{
		When:      when,
		Lifecycle: lifecycle,
		Vehicle:   Vehicle{Capacity: capacity},
		Occupied:  occupied,
	}
}

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name string
		dep  Departure
		want StatusCode
	}{
		{"future scheduled", dep(LifecycleScheduled, statusNow.Add(time.Hour), 12, 0), StatusPending},
		{"at departure time", dep(LifecycleScheduled, statusNow, 12, 0), StatusReadyToDepart},
		{"past departure time", dep(LifecycleScheduled, statusNow.Add(-time.Hour), 12, 0), StatusReadyToDepart},
		{"in progress", dep(LifecycleInProgress, statusNow.Add(-time.Hour), 12, 0), StatusInProgress},
		{"completed", dep(LifecycleCompleted, statusNow.Add(-3*time.Hour), 12, 0), StatusCompleted},
		{"cancelled overrides time", dep(LifecycleCancelled, statusNow.Add(time.Hour), 12, 0), StatusCancelled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveStatus(tc.dep, statusNow)
			if got.Code != tc.want {
				t.Fatalf("code = %s, want %s", got.Code, tc.want)
			}
			if got.Label == "" || got.Color == "" || got.Icon == "" {
				t.Fatalf("incomplete status info: %+v", got)
			}
		})
	}
}

func TestCanTransition(t *testing.T) {
	allowed := map[[2]Lifecycle]bool{
		{LifecycleScheduled, LifecycleInProgress}: true,
		{LifecycleScheduled, LifecycleCancelled}:  true,
		{LifecycleInProgress, LifecycleCompleted}: true,
	}
	all := []Lifecycle{LifecycleScheduled, LifecycleInProgress, LifecycleCompleted, LifecycleCancelled}
	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]Lifecycle{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Fatalf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestSellable(t *testing.T) {
	cases := []struct {
		name string
		dep  Departure
		want bool
	}{
		{"pending with seats", dep(LifecycleScheduled, statusNow.Add(time.Hour), 12, 3), true},
		{"ready with seats", dep(LifecycleScheduled, statusNow.Add(-time.Minute), 12, 3), true},
		{"full", dep(LifecycleScheduled, statusNow.Add(time.Hour), 12, 12), false},
		{"in progress", dep(LifecycleInProgress, statusNow.Add(-time.Hour), 12, 3), false},
		{"completed", dep(LifecycleCompleted, statusNow.Add(-time.Hour), 12, 3), false},
		{"cancelled", dep(LifecycleCancelled, statusNow.Add(time.Hour), 12, 3), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Sellable(tc.dep, statusNow); got != tc.want {
				t.Fatalf("Sellable = %v, want %v", got, tc.want)
			}
		})
	}
}
