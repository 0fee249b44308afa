package ports

import "map-weather-service/internal/domain"

// LocationProvider reports the device's best-known position.
type LocationProvider interface {
	// Start listening for fixes. Safe to call more than once.
	Enable()
	// Return the most recent fix, if any.
	CurrentLocation() (domain.Coordinate, bool)
	// Run fn once, on the provider's goroutine, after the first fix arrives.
	RunOnFirstFix(fn func())
}

// PermissionGate reports whether location sensing has been granted.
type PermissionGate interface {
	Granted() bool
}

// MapCamera is the map view's viewport.
type MapCamera interface {
	CenterOn(c domain.Coordinate, zoom float64)
	AnimateTo(c domain.Coordinate, zoom float64)
}
