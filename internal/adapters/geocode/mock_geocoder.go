package geocode

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"map-weather-service/internal/domain"
)

// MockGeocoder answers from fixed tables. Coordinates missing from Places
// reverse-geocode to domain.UnknownLocation; names missing from Cities are not found.
type MockGeocoder struct {
	Places map[domain.Coordinate]string
	Cities map[string]domain.Coordinate
	// Err, when set, fails every call with a wrapped domain.ErrGeocoding.
	Err    error

	mu           sync.Mutex
	reverseCalls int
	forwardCalls int
}

func NewMockGeocoder() *MockGeocoder {
	return &MockGeocoder{
		Places: make(map[domain.Coordinate]string),
		Cities: make(map[string]domain.Coordinate),
	}
}

func (m *MockGeocoder) ReverseGeocode(ctx context.Context, c domain.Coordinate) (string, error) {
	m.mu.Lock()
	m.reverseCalls++
	m.mu.Unlock()

	if m.Err != nil {
		return "", fmt.Errorf("reverse geocode %s: %w: %w", c, domain.ErrGeocoding, m.Err)
	}
	if name, ok := m.Places[c]; ok {
		return name, nil
	}
	return domain.UnknownLocation, nil
}

func (m *MockGeocoder) ForwardGeocode(ctx context.Context, name string) (domain.Coordinate, error) {
	m.mu.Lock()
	m.forwardCalls++
	m.mu.Unlock()

	if m.Err != nil {
		return domain.Coordinate{}, fmt.Errorf("forward geocode %q: %w: %w", name, domain.ErrGeocoding, m.Err)
	}
	if c, ok := m.Cities[strings.ToLower(normalize(name))]; ok {
		return c, nil
	}
	return domain.Coordinate{}, fmt.Errorf("forward geocode %q: %w", name, domain.ErrNotFound)
}

func (m *MockGeocoder) Calls() (reverse, forward int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reverseCalls, m.forwardCalls
}
