package ports

import (
	"context"
	"map-weather-service/internal/domain"
)

// Contract for resolving coordinates to place names and back.
type Geocoder interface {
	// Return the nearest locality name, or domain.UnknownLocation when nothing is found.
	// Fails with domain.ErrGeocoding on service failure.
	ReverseGeocode(ctx context.Context, c domain.Coordinate) (string, error)
	// Return the first coordinate matching a free-text place name.
	// Fails with domain.ErrNotFound on zero matches and domain.ErrGeocoding on service failure.
	ForwardGeocode(ctx context.Context, name string) (domain.Coordinate, error)
}

// Port: persistent storage of forward geocoding results keyed by normalized name.
type GeocodeCache interface {
	GetMany(ctx context.Context, names []string) (map[string]domain.Coordinate, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinate) error
}
