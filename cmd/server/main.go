package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"map-weather-service/internal/adapters/cache"
	"map-weather-service/internal/adapters/events"
	"map-weather-service/internal/adapters/geocode"
	"map-weather-service/internal/adapters/location"
	"map-weather-service/internal/adapters/mapview"
	"map-weather-service/internal/adapters/presentation"
	"map-weather-service/internal/adapters/weather"
	"map-weather-service/internal/api"
	"map-weather-service/internal/config"
	"map-weather-service/internal/platform/db"
	"map-weather-service/internal/platform/logging"
	"map-weather-service/internal/platform/uiloop"
	"map-weather-service/internal/ports"
	"map-weather-service/internal/services"

	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (ORS, OpenWeatherMap, caches, NATS) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	weatherClient, err := weather.NewOpenWeatherClient(cfg.Weather.APIKey,
		weather.WithBaseURL(cfg.Weather.BaseURL),
		weather.WithHTTPClient(&http.Client{Timeout: cfg.Weather.Timeout}),
	)
	if err != nil {
		return err
	}

	orsGeocoder, err := geocode.NewORSGeocoder(cfg.Geocode.APIKey,
		geocode.WithBaseURL(cfg.Geocode.BaseURL),
		geocode.WithHTTPClient(&http.Client{Timeout: cfg.Geocode.Timeout}),
	)
	if err != nil {
		return err
	}

	var geocoder ports.Geocoder = orsGeocoder
	geocodeCache, closeCache, err := openGeocodeCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer closeCache()
	if geocodeCache != nil {
		if cfg.Cache.SeedPath != "" {
			n, err := cache.SeedFromJSON(ctx, geocodeCache, cfg.Cache.SeedPath, geocode.CacheKey)
			if err != nil {
				return err
			}
			slog.Info("geocode cache seeded", "places", n, "path", cfg.Cache.SeedPath)
		}
		geocoder = geocode.NewCachedGeocoder(orsGeocoder, geocodeCache)
	}

	var publisher ports.OutcomePublisher
	if cfg.NATS.URL != "" {
		p, err := events.NewPublisher(cfg.NATS.URL)
		if err != nil {
			return err
		}
		defer p.Close()
		publisher = p
	}

	loop := uiloop.New()
	loop.Start()
	defer loop.Close()

	feed := presentation.NewFeed(cfg.Presentation.History)
	camera := mapview.NewCamera()
	tracker := location.NewTracker()
	permission := location.NewPermission(cfg.Device.PermissionGranted)

	pipeline := services.NewLocationPipeline(geocoder, weatherClient, feed, loop, services.PipelineOptions{
		DiscardStale: cfg.Pipeline.DiscardStale,
		Publisher:    publisher,
	})
	screen := services.NewScreen(services.ScreenDeps{
		Pipeline:   pipeline,
		Geocoder:   geocoder,
		Camera:     camera,
		Location:   tracker,
		Permission: permission,
		Sink:       feed,
		Loop:       loop,
	})
	screen.Start(ctx)

	router := api.NewRouter(api.Deps{
		Screen:     screen,
		Feed:       feed,
		Tracker:    tracker,
		Permission: permission,
		Camera:     camera,
		MaxWait:    cfg.Server.MaxWait,
	})

	// WriteTimeout must cover the longest ?wait=true request.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      max(cfg.Server.WriteTimeout, cfg.Server.MaxWait+5*time.Second),
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "cache", cfg.Cache.Backend, "discard_stale", cfg.Pipeline.DiscardStale)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	// Lookups still in flight present and publish before the loop, NATS and the cache close.
	if err := screen.Drain(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openGeocodeCache returns a nil cache when caching is disabled.
func openGeocodeCache(ctx context.Context, cfg config.CacheConfig) (ports.GeocodeCache, func(), error) {
	noop := func() {}

	switch cfg.Backend {
	case "none", "":
		return nil, noop, nil

	case "sqlite", "postgres":
		var (
			conn    *sql.DB
			dialect cache.Dialect
			err     error
		)
		if cfg.Backend == "sqlite" {
			conn, err = db.OpenSQLite(cfg.DSN)
			dialect = cache.DialectSQLite
		} else {
			conn, err = db.Open(cfg.DSN)
			dialect = cache.DialectPostgres
		}
		if err != nil {
			return nil, noop, err
		}
		if err := cache.InitSchema(ctx, conn, dialect); err != nil {
			_ = conn.Close()
			return nil, noop, err
		}
		closeDB := func() { _ = conn.Close() }
		if dialect == cache.DialectSQLite {
			return cache.NewSqliteGeocodeCache(conn), closeDB, nil
		}
		return cache.NewSQLGeocodeCache(conn), closeDB, nil

	case "redis":
		opts, err := redis.ParseURL(cfg.DSN)
		if err != nil {
			return nil, noop, fmt.Errorf("open geocode cache: parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("open geocode cache: ping redis: %w", err)
		}
		return cache.NewRedisGeocodeCache(client, cfg.TTL), func() { _ = client.Close() }, nil
	}

	return nil, noop, fmt.Errorf("open geocode cache: unsupported backend %q", cfg.Backend)
}
