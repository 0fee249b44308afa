package location

import (
	"testing"

	"map-weather-service/internal/domain"
)

func TestTrackerIgnoresFixesUntilEnabled(t *testing.T) {
	tr := NewTracker()

	if tr.ReportFix(domain.Coordinate{Lat: 1, Lon: 1}) {
		t.Fatal("fix accepted before Enable")
	}
	if _, ok := tr.CurrentLocation(); ok {
		t.Fatal("expected no location before Enable")
	}

	tr.Enable()
	if !tr.ReportFix(domain.Coordinate{Lat: 1, Lon: 1}) {
		t.Fatal("fix rejected after Enable")
	}
	if c, ok := tr.CurrentLocation(); !ok || c.Lat != 1 {
		t.Fatalf("CurrentLocation = %v, %v", c, ok)
	}
}

func TestTrackerRunsFirstFixCallbacksOnce(t *testing.T) {
	tr := NewTracker()
	tr.Enable()

	calls := 0
	tr.RunOnFirstFix(func() { calls++ })

	tr.ReportFix(domain.Coordinate{Lat: 1, Lon: 1})
	tr.ReportFix(domain.Coordinate{Lat: 2, Lon: 2})

	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	late := 0
	tr.RunOnFirstFix(func() { late++ })
	if late != 1 {
		t.Fatalf("late registration calls = %d, want 1", late)
	}
}

func TestTrackerLost(t *testing.T) {
	tr := NewTracker()
	tr.Enable()
	tr.ReportFix(domain.Coordinate{Lat: 1, Lon: 1})
	tr.Lost()

	if _, ok := tr.CurrentLocation(); ok {
		t.Fatal("expected no location after Lost")
	}
}
