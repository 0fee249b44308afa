package ports

import (
	"context"
	"map-weather-service/internal/domain"
)

// Contract for retrieving current conditions for a coordinate.
type WeatherProvider interface {
	// Return the current temperature in degrees Celsius.
	// Fails with domain.ErrNetwork or domain.ErrParse.
	FetchCurrentTemperature(ctx context.Context, c domain.Coordinate) (float64, error)
}
