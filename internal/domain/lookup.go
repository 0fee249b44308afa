package domain

import "time"

// LookupState is the position of one pipeline run in its state machine.
type LookupState string

const (
	StateIdle      LookupState = "idle"
	StateResolving LookupState = "resolving"
	StateFetching  LookupState = "fetching"
	StatePresented LookupState = "presented"
	StateFailed    LookupState = "failed"
)

// Terminal reports whether no further transitions are possible.
func (s LookupState) Terminal() bool {
	return s == StatePresented || s == StateFailed
}

// LookupOutcome records how a single pipeline run ended.
type LookupOutcome struct {
	ID                 string      `json:"id"`
	Token              uint64      `json:"token"`
	Entry              string      `json:"entry"`
	Coordinate         Coordinate  `json:"coordinate"`
	State              LookupState `json:"state"`
	PlaceName          string      `json:"place_name,omitempty"`
	TemperatureCelsius float64     `json:"temperature_celsius,omitempty"`
	Message            string      `json:"message,omitempty"`
	// Stale is set when a newer lookup started before this one finished and the
	// completion was not presented.
	Stale      bool      `json:"stale,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
