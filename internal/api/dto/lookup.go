package dto

import "map-weather-service/internal/adapters/presentation"

type TapRequest struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

type SearchRequest struct {
	City string `json:"city"`
}

type FixRequest struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

type PermissionRequest struct {
	Granted *bool `json:"granted"`
}

// AcceptedResponse is returned when an action was queued without waiting.
// After is the feed cursor to poll from for the presentation it produces.
type AcceptedResponse struct {
	Accepted bool   `json:"accepted"`
	After    uint64 `json:"after"`
}

type PresentationsResponse struct {
	Presentations []presentation.Presentation `json:"presentations"`
	Last          uint64                      `json:"last"`
}
