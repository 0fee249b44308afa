package weather

import (
	"context"
	"fmt"
	"sync"

	"map-weather-service/internal/domain"
)

// MockWeatherProvider returns fixed temperatures per coordinate.
type MockWeatherProvider struct {
	Temps map[domain.Coordinate]float64
	// Err, when set, is returned for every call.
	Err error
	// Gates holds calls for a coordinate until its channel is closed.
	Gates map[domain.Coordinate]chan struct{}

	mu    sync.Mutex
	calls []domain.Coordinate
}

func NewMockWeatherProvider() *MockWeatherProvider {
	return &MockWeatherProvider{
		Temps: make(map[domain.Coordinate]float64),
		Gates: make(map[domain.Coordinate]chan struct{}),
	}
}

func (m *MockWeatherProvider) FetchCurrentTemperature(ctx context.Context, c domain.Coordinate) (float64, error) {
	m.mu.Lock()
	m.calls = append(m.calls, c)
	gate, gated := m.Gates[c]
	m.mu.Unlock()

	if gated {
		select {
		case <-gate:
		case <-ctx.Done():
			return 0, fmt.Errorf("fetch weather %s: %w: %w", c, domain.ErrNetwork, ctx.Err())
		}
	}

	if m.Err != nil {
		return 0, m.Err
	}
	t, ok := m.Temps[c]
	if !ok {
		return 0, fmt.Errorf("fetch weather %s: missing main.temp: %w", c, domain.ErrParse)
	}
	return t, nil
}

func (m *MockWeatherProvider) Calls() []domain.Coordinate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Coordinate(nil), m.calls...)
}
