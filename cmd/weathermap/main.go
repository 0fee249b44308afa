package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"map-weather-service/internal/adapters/geocode"
	"map-weather-service/internal/adapters/location"
	"map-weather-service/internal/adapters/mapview"
	"map-weather-service/internal/adapters/presentation"
	"map-weather-service/internal/adapters/weather"
	"map-weather-service/internal/config"
	"map-weather-service/internal/domain"
	"map-weather-service/internal/platform/logging"
	"map-weather-service/internal/platform/uiloop"
	"map-weather-service/internal/services"
)

const usage = `usage:
  weathermap [-timeout 30s] tap LAT LON     weather at a map point
  weathermap [-timeout 30s] search CITY     weather in a named city
  weathermap [-timeout 30s] fix LAT LON     simulate the first GPS fix
`

// firstShown forwards to a terminal and reports the first presentation.
type firstShown struct {
	*presentation.Terminal
	done chan bool
}

func (s *firstShown) ShowResult(r domain.WeatherResult) {
	s.Terminal.ShowResult(r)
	s.signal(true)
}

func (s *firstShown) ShowMessage(text string) {
	s.Terminal.ShowMessage(text)
	s.signal(false)
}

func (s *firstShown) signal(ok bool) {
	select {
	case s.done <- ok:
	default:
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("weathermap", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	timeout := fs.Duration("timeout", 30*time.Second, "how long to wait for a result")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	slog.SetDefault(logging.New(stderr, cfg.Log.Level, cfg.Log.Format))

	weatherClient, err := weather.NewOpenWeatherClient(cfg.Weather.APIKey,
		weather.WithBaseURL(cfg.Weather.BaseURL),
		weather.WithHTTPClient(&http.Client{Timeout: cfg.Weather.Timeout}),
	)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	geocoder, err := geocode.NewORSGeocoder(cfg.Geocode.APIKey,
		geocode.WithBaseURL(cfg.Geocode.BaseURL),
		geocode.WithHTTPClient(&http.Client{Timeout: cfg.Geocode.Timeout}),
	)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	loop := uiloop.New()
	loop.Start()
	defer loop.Close()

	sink := &firstShown{Terminal: presentation.NewTerminal(stdout), done: make(chan bool, 1)}
	tracker := location.NewTracker()
	permission := location.NewPermission(false)

	screen := services.NewScreen(services.ScreenDeps{
		Pipeline:   services.NewLocationPipeline(geocoder, weatherClient, sink, loop, services.PipelineOptions{}),
		Geocoder:   geocoder,
		Camera:     mapview.NewCamera(),
		Location:   tracker,
		Permission: permission,
		Sink:       sink,
		Loop:       loop,
	})

	ctx := context.Background()
	if err := dispatch(ctx, fs.Args(), screen, loop, tracker, permission); err != nil {
		fmt.Fprintln(stderr, err)
		fs.Usage()
		return 2
	}

	select {
	case ok := <-sink.done:
		if !ok {
			return 1
		}
		return 0
	case <-time.After(*timeout):
		fmt.Fprintf(stderr, "no result after %s\n", *timeout)
		return 1
	}
}

func dispatch(
	ctx context.Context,
	args []string,
	screen *services.Screen,
	loop *uiloop.Loop,
	tracker *location.Tracker,
	permission *location.Permission,
) error {
	if len(args) == 0 {
		return errors.New("missing command")
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "tap":
		c, err := parseCoordinate(rest)
		if err != nil {
			return err
		}
		screen.HandleTap(ctx, c)

	case "search":
		if len(rest) != 1 || !screen.HandleSearch(ctx, rest[0]) {
			return errors.New("search needs one non-empty CITY argument")
		}

	case "fix":
		c, err := parseCoordinate(rest)
		if err != nil {
			return err
		}
		permission.Set(true)
		screen.Start(ctx)
		// Start enables the tracker on the loop.
		loop.Flush()
		tracker.ReportFix(c)

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func parseCoordinate(args []string) (domain.Coordinate, error) {
	if len(args) != 2 {
		return domain.Coordinate{}, errors.New("expected LAT LON")
	}
	lat, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("parse latitude %q: %w", args[0], err)
	}
	lon, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("parse longitude %q: %w", args[1], err)
	}
	return domain.NewCoordinate(lat, lon)
}
