package domain

import "errors"

var (
	ErrGeocoding           = errors.New("geocoding failed")
	ErrNotFound            = errors.New("no matching place")
	ErrPermissionDenied    = errors.New("location permission not granted")
	ErrLocationUnavailable = errors.New("no location fix available")
	ErrNetwork             = errors.New("weather request failed")
	ErrParse               = errors.New("malformed weather response")
)

// User-visible messages.
const (
	MsgGeocodingFailed     = "Geocoding failed!"
	MsgFetchFailed         = "Failed to fetch weather data!"
	MsgParseFailed         = "Error parsing weather data!"
	MsgCityNotFound        = "City not found"
	MsgCityLookupFailed    = "Error finding city"
	MsgLocationUnavailable = "Could not get current location!"
	MsgPermissionRequired  = "Location permission is required to get weather updates!"
)

// MessageFor converts an error from any stage of a lookup into the text shown to the user.
func MessageFor(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return MsgCityNotFound
	case errors.Is(err, ErrPermissionDenied):
		return MsgPermissionRequired
	case errors.Is(err, ErrLocationUnavailable):
		return MsgLocationUnavailable
	case errors.Is(err, ErrParse):
		return MsgParseFailed
	case errors.Is(err, ErrNetwork):
		return MsgFetchFailed
	case errors.Is(err, ErrGeocoding):
		return MsgGeocodingFailed
	default:
		return MsgFetchFailed
	}
}
