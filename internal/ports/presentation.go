package ports

import "map-weather-service/internal/domain"

// PresentationSink displays lookup results and notices to the user.
// Implementations are only called from the dispatcher goroutine.
type PresentationSink interface {
	// Modal acknowledgment of a successful lookup.
	ShowResult(result domain.WeatherResult)
	// Transient notice for errors and informational states.
	ShowMessage(text string)
}

// Dispatcher runs closures on the goroutine that owns presentation and camera state.
type Dispatcher interface {
	// Queue fn for execution. Returns false if the dispatcher no longer accepts work.
	Post(fn func()) bool
}

// Port: receives every terminal lookup outcome (e.g. for downstream consumers).
type OutcomePublisher interface {
	PublishOutcome(outcome domain.LookupOutcome) error
}
