package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"map-weather-service/internal/adapters/cache"
	"map-weather-service/internal/adapters/geocode"
	"map-weather-service/internal/config"
	"map-weather-service/internal/platform/db"
	"map-weather-service/internal/platform/logging"
	"map-weather-service/internal/ports"

	"github.com/joho/godotenv"
)

// dbtool creates the geocode cache table and optionally warms it with known places.
//
//	CACHE_BACKEND=postgres DATABASE_URL=... SEED_PATH=data/places.json dbtool
//	CACHE_BACKEND=sqlite DATABASE_URL=data/geocode.db dbtool
func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found (using environment variables)")
	}
	logging.Setup(config.Get("LOG_LEVEL", "info"), config.Get("LOG_FORMAT", "text"))

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	backend := config.Get("CACHE_BACKEND", "postgres")
	var (
		conn    *sql.DB
		dialect cache.Dialect
		err     error
	)
	switch backend {
	case "postgres":
		conn, err = db.Open(databaseURL)
		dialect = cache.DialectPostgres
	case "sqlite":
		conn, err = db.OpenSQLite(databaseURL)
		dialect = cache.DialectSQLite
	default:
		err = fmt.Errorf("CACHE_BACKEND must be postgres or sqlite, got %q", backend)
	}
	if err != nil {
		slog.Error("open database", "err", err)
		os.Exit(1)
	}
	defer conn.Close()

	var store ports.GeocodeCache = cache.NewSQLGeocodeCache(conn)
	if dialect == cache.DialectSQLite {
		store = cache.NewSqliteGeocodeCache(conn)
	}

	if err := initAndSeed(context.Background(), conn, dialect, store, config.Get("SEED_PATH", "")); err != nil {
		slog.Error("dbtool failed", "err", err)
		conn.Close()
		os.Exit(1)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, dialect cache.Dialect, store ports.GeocodeCache, seedPath string) error {
	slog.Info("initializing geocode cache schema", "dialect", dialect)
	if err := cache.InitSchema(ctx, conn, dialect); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	slog.Info("schema ready")

	if seedPath == "" {
		return nil
	}

	slog.Info("seeding places", "path", seedPath)
	n, err := cache.SeedFromJSON(ctx, store, seedPath, geocode.CacheKey)
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	slog.Info("seeding complete", "places", n)

	return nil
}
