package services

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"map-weather-service/internal/domain"
	"map-weather-service/internal/platform/metrics"
	"map-weather-service/internal/platform/obs"
	"map-weather-service/internal/ports"

	"github.com/google/uuid"
)

// EntryPoint names the user action that produced a coordinate.
type EntryPoint string

const (
	EntryTap      EntryPoint = "tap"
	EntrySearch   EntryPoint = "search"
	EntryFirstFix EntryPoint = "first_fix"
	EntryLocateMe EntryPoint = "locate_me"
)

type PipelineOptions struct {
	// DiscardStale drops completions of lookups superseded by a newer one.
	// When false, overlapping lookups all present and the last to finish wins.
	DiscardStale bool
	Publisher    ports.OutcomePublisher
}

// LocationPipeline turns a chosen coordinate into a presented weather result
// or a presented error. Each Resolve call is an independent run; network work
// happens on its own goroutine and presentation is marshalled onto the dispatcher.
type LocationPipeline struct {
	geocoder  ports.Geocoder
	weather   ports.WeatherProvider
	sink      ports.PresentationSink
	loop      ports.Dispatcher
	publisher ports.OutcomePublisher

	discardStale bool
	latest       atomic.Uint64
	inflight     sync.WaitGroup
	now          func() time.Time
}

func NewLocationPipeline(
	geocoder ports.Geocoder,
	weather ports.WeatherProvider,
	sink ports.PresentationSink,
	loop ports.Dispatcher,
	opts PipelineOptions,
) *LocationPipeline {
	return &LocationPipeline{
		geocoder:     geocoder,
		weather:      weather,
		sink:         sink,
		loop:         loop,
		publisher:    opts.Publisher,
		discardStale: opts.DiscardStale,
		now:          time.Now,
	}
}

// Lookup is the handle for one pipeline run. Outcome is final once Done is closed.
type Lookup struct {
	ID         string
	Token      uint64
	Entry      EntryPoint
	Coordinate domain.Coordinate

	done    chan struct{}
	mu      sync.Mutex
	state   domain.LookupState
	outcome domain.LookupOutcome
}

func (l *Lookup) Done() <-chan struct{} { return l.done }

func (l *Lookup) State() domain.LookupState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Outcome returns the terminal outcome. Only meaningful after Done is closed.
func (l *Lookup) Outcome() domain.LookupOutcome {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.outcome
}

// Wait blocks until the lookup finishes or ctx ends.
func (l *Lookup) Wait(ctx context.Context) (domain.LookupOutcome, error) {
	select {
	case <-l.done:
		return l.Outcome(), nil
	case <-ctx.Done():
		return domain.LookupOutcome{}, ctx.Err()
	}
}

func (l *Lookup) setState(s domain.LookupState) {
	l.mu.Lock()
	l.state = s
	l.mu.Unlock()
}

// Resolve starts a lookup for c and returns immediately. Cancellation of ctx
// does not abort the lookup; only its values (request id) are carried over.
func (p *LocationPipeline) Resolve(ctx context.Context, entry EntryPoint, c domain.Coordinate) *Lookup {
	l := &Lookup{
		ID:         uuid.NewString(),
		Token:      p.latest.Add(1),
		Entry:      entry,
		Coordinate: c,
		done:       make(chan struct{}),
		state:      domain.StateIdle,
	}
	l.outcome = domain.LookupOutcome{
		ID:         l.ID,
		Token:      l.Token,
		Entry:      string(entry),
		Coordinate: c,
		State:      domain.StateIdle,
		StartedAt:  p.now(),
	}

	metrics.LookupsStarted.WithLabelValues(string(entry)).Inc()

	ctx = context.WithoutCancel(ctx)
	if obs.RequestID(ctx) == "" {
		ctx = obs.WithRequestID(ctx, l.ID)
	}

	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		p.run(ctx, l)
	}()
	return l
}

// Drain waits for every started lookup to finish, or for ctx to end.
// The dispatcher must keep running until Drain returns.
func (p *LocationPipeline) Drain(ctx context.Context) error {
	return waitGroup(ctx, &p.inflight)
}

func waitGroup(ctx context.Context, wg *sync.WaitGroup) error {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *LocationPipeline) run(ctx context.Context, l *Lookup) {
	l.setState(domain.StateResolving)
	place, err := p.geocoder.ReverseGeocode(ctx, l.Coordinate)
	if err != nil {
		p.finish(ctx, l, domain.StateFailed, nil, domain.MsgGeocodingFailed, err)
		return
	}

	l.setState(domain.StateFetching)
	temp, err := p.weather.FetchCurrentTemperature(ctx, l.Coordinate)
	if err != nil {
		p.finish(ctx, l, domain.StateFailed, nil, domain.MessageFor(err), err)
		return
	}

	result := &domain.WeatherResult{
		PlaceName:          place,
		TemperatureCelsius: temp,
		Coordinate:         l.Coordinate,
	}
	p.finish(ctx, l, domain.StatePresented, result, "", nil)
}

// finish presents the terminal state on the dispatcher, then records the outcome.
func (p *LocationPipeline) finish(
	ctx context.Context,
	l *Lookup,
	state domain.LookupState,
	result *domain.WeatherResult,
	message string,
	cause error,
) {
	shown := make(chan bool, 1)
	posted := p.loop.Post(func() {
		if p.discardStale && l.Token != p.latest.Load() {
			shown <- false
			return
		}
		if result != nil {
			p.sink.ShowResult(*result)
		} else {
			p.sink.ShowMessage(message)
		}
		shown <- true
	})

	presented := posted && <-shown
	if !posted {
		slog.Warn("dispatcher closed; lookup result dropped", "lookup_id", l.ID)
	}

	out := domain.LookupOutcome{
		ID:         l.ID,
		Token:      l.Token,
		Entry:      string(l.Entry),
		Coordinate: l.Coordinate,
		State:      state,
		Message:    message,
		Stale:      !presented,
		StartedAt:  l.Outcome().StartedAt,
		FinishedAt: p.now(),
	}
	if result != nil {
		out.PlaceName = result.PlaceName
		out.TemperatureCelsius = result.TemperatureCelsius
	}

	l.mu.Lock()
	l.state = state
	l.outcome = out
	l.mu.Unlock()

	p.record(ctx, out, cause)
	close(l.done)
}

func (p *LocationPipeline) record(ctx context.Context, out domain.LookupOutcome, cause error) {
	metrics.LookupsFinished.WithLabelValues(string(out.State), out.Message).Inc()
	if out.Stale {
		metrics.StaleCompletions.Inc()
	}

	attrs := []any{
		"req_id", obs.RequestID(ctx),
		"lookup_id", out.ID,
		"entry", out.Entry,
		"lat", out.Coordinate.Lat,
		"lon", out.Coordinate.Lon,
		"state", out.State,
		"stale", out.Stale,
		"dur_ms", out.FinishedAt.Sub(out.StartedAt).Milliseconds(),
	}
	if cause != nil {
		slog.Warn("lookup failed", append(attrs, "message", out.Message, "err", cause)...)
	} else {
		slog.Info("lookup presented", append(attrs, "place", out.PlaceName, "temp_c", out.TemperatureCelsius)...)
	}

	if p.publisher != nil {
		if err := p.publisher.PublishOutcome(out); err != nil {
			slog.Warn("publish lookup outcome failed", "lookup_id", out.ID, "err", err)
		}
	}
}
