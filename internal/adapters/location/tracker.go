package location

import (
	"sync"

	"map-weather-service/internal/domain"
)

// Tracker is a LocationProvider fed by fixes reported from the device.
// Fixes reported before Enable are ignored.
type Tracker struct {
	mu         sync.Mutex
	enabled    bool
	current    *domain.Coordinate
	firstFixed bool
	waiters    []func()
}

func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) Enable() {
	t.mu.Lock()
	t.enabled = true
	t.mu.Unlock()
}

func (t *Tracker) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

// ReportFix records a new device position. The first fix after Enable runs
// every callback registered with RunOnFirstFix. It returns false when ignored.
func (t *Tracker) ReportFix(c domain.Coordinate) bool {
	t.mu.Lock()
	if !t.enabled {
		t.mu.Unlock()
		return false
	}

	t.current = &c

	var run []func()
	if !t.firstFixed {
		t.firstFixed = true
		run = t.waiters
		t.waiters = nil
	}
	t.mu.Unlock()

	for _, fn := range run {
		fn()
	}
	return true
}

// Lost clears the current fix, e.g. when the provider reports loss of signal.
func (t *Tracker) Lost() {
	t.mu.Lock()
	t.current = nil
	t.mu.Unlock()
}

func (t *Tracker) CurrentLocation() (domain.Coordinate, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return domain.Coordinate{}, false
	}
	return *t.current, true
}

// RunOnFirstFix runs fn after the first fix, or immediately on the calling
// goroutine when the first fix already happened.
func (t *Tracker) RunOnFirstFix(fn func()) {
	t.mu.Lock()
	if !t.firstFixed {
		t.waiters = append(t.waiters, fn)
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	fn()
}
