package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"map-weather-service/internal/domain"
	"map-weather-service/internal/ports"
)

const (
	SearchZoom = 10.0
	LocateZoom = 15.0
)

// Screen wires the four user entry points (map tap, city search, first GPS
// fix, locate-me) into the location pipeline. All camera and presentation
// work runs on the dispatcher; geocoding of searches runs off it.
type Screen struct {
	pipeline   *LocationPipeline
	geocoder   ports.Geocoder
	camera     ports.MapCamera
	location   ports.LocationProvider
	permission ports.PermissionGate
	sink       ports.PresentationSink
	loop       ports.Dispatcher

	searches sync.WaitGroup

	// owned by the dispatcher goroutine
	locationEnabled bool
}

type ScreenDeps struct {
	Pipeline   *LocationPipeline
	Geocoder   ports.Geocoder
	Camera     ports.MapCamera
	Location   ports.LocationProvider
	Permission ports.PermissionGate
	Sink       ports.PresentationSink
	Loop       ports.Dispatcher
}

func NewScreen(d ScreenDeps) *Screen {
	return &Screen{
		pipeline:   d.Pipeline,
		geocoder:   d.Geocoder,
		camera:     d.Camera,
		location:   d.Location,
		permission: d.Permission,
		sink:       d.Sink,
		loop:       d.Loop,
	}
}

// Start enables location tracking when permission is already granted and
// otherwise tells the user the permission is required.
func (s *Screen) Start(ctx context.Context) bool {
	ctx = context.WithoutCancel(ctx)
	return s.loop.Post(func() {
		if s.permission.Granted() {
			s.enableLocation(ctx)
			return
		}
		s.notify("start", domain.ErrPermissionDenied)
	})
}

// OnPermissionResult handles the user's answer to the location permission prompt.
func (s *Screen) OnPermissionResult(ctx context.Context, granted bool) bool {
	ctx = context.WithoutCancel(ctx)
	return s.loop.Post(func() {
		if granted && s.permission.Granted() {
			s.enableLocation(ctx)
			return
		}
		s.notify("permission result", domain.ErrPermissionDenied)
	})
}

// HandleTap looks up weather for a tapped map point.
func (s *Screen) HandleTap(ctx context.Context, c domain.Coordinate) bool {
	ctx = context.WithoutCancel(ctx)
	return s.loop.Post(func() {
		s.pipeline.Resolve(ctx, EntryTap, c)
	})
}

// HandleSearch geocodes a typed city name and, when found, moves the map there
// and looks up its weather. Blank input is ignored and reported as not accepted.
func (s *Screen) HandleSearch(ctx context.Context, city string) bool {
	city = strings.TrimSpace(city)
	if city == "" {
		return false
	}

	ctx = context.WithoutCancel(ctx)
	s.searches.Add(1)
	go func() {
		defer s.searches.Done()
		c, err := s.geocoder.ForwardGeocode(ctx, city)
		s.loop.Post(func() {
			if err != nil {
				s.reportSearchFailure(city, err)
				return
			}
			s.camera.AnimateTo(c, SearchZoom)
			s.pipeline.Resolve(ctx, EntrySearch, c)
		})
	}()
	return true
}

// HandleLocateMe looks up weather at the device's current position.
func (s *Screen) HandleLocateMe(ctx context.Context) bool {
	ctx = context.WithoutCancel(ctx)
	return s.loop.Post(func() {
		if !s.permission.Granted() {
			s.notify("locate me", domain.ErrPermissionDenied)
			return
		}
		if !s.locationEnabled {
			s.enableLocation(ctx)
		}

		c, ok := s.location.CurrentLocation()
		if !ok {
			s.notify("locate me", domain.ErrLocationUnavailable)
			return
		}
		s.camera.AnimateTo(c, LocateZoom)
		s.pipeline.Resolve(ctx, EntryLocateMe, c)
	})
}

// Drain waits for pending searches, for work already posted to the dispatcher,
// and then for every lookup those started. Call it after new actions have stopped
// and before closing the dispatcher or the stores behind the adapters.
func (s *Screen) Drain(ctx context.Context) error {
	if err := waitGroup(ctx, &s.searches); err != nil {
		return fmt.Errorf("drain screen: searches: %w", err)
	}

	flushed := make(chan struct{})
	if s.loop.Post(func() { close(flushed) }) {
		select {
		case <-flushed:
		case <-ctx.Done():
			return fmt.Errorf("drain screen: dispatcher: %w", ctx.Err())
		}
	}

	if err := s.pipeline.Drain(ctx); err != nil {
		return fmt.Errorf("drain screen: lookups: %w", err)
	}
	return nil
}

// enableLocation must run on the dispatcher.
func (s *Screen) enableLocation(ctx context.Context) {
	if s.locationEnabled {
		return
	}
	s.locationEnabled = true

	s.location.Enable()
	s.location.RunOnFirstFix(func() {
		s.loop.Post(func() { s.handleFirstFix(ctx) })
	})
}

func (s *Screen) handleFirstFix(ctx context.Context) {
	c, ok := s.location.CurrentLocation()
	if !ok {
		s.notify("first fix", domain.ErrLocationUnavailable)
		return
	}
	s.camera.CenterOn(c, LocateZoom)
	s.pipeline.Resolve(ctx, EntryFirstFix, c)
}

func (s *Screen) reportSearchFailure(city string, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		slog.Info("city not found", "city", city)
		s.sink.ShowMessage(domain.MessageFor(err))
		return
	}
	slog.Warn("city search failed", "city", city, "err", err)
	s.sink.ShowMessage(domain.MsgCityLookupFailed)
}

// notify shows the user-facing text for a failed screen action. Must run on the dispatcher.
func (s *Screen) notify(action string, err error) {
	slog.Info("screen action refused", "action", action, "err", err)
	s.sink.ShowMessage(domain.MessageFor(err))
}
