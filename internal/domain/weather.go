package domain

// Place name reported when reverse geocoding finds no address for a coordinate.
const UnknownLocation = "Unknown Location"

// WeatherResult is built once per successful lookup and handed straight to presentation.
type WeatherResult struct {
	PlaceName          string     `json:"place_name"`
	TemperatureCelsius float64    `json:"temperature_celsius"`
	Coordinate         Coordinate `json:"coordinate"`
}
