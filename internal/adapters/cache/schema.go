package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"map-weather-service/internal/domain"
	"map-weather-service/internal/ports"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Initialize the geocode cache schema for the given SQL dialect.
func InitSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	var statements []string
	switch dialect {
	case DialectSQLite:
		statements = []string{`
	CREATE TABLE IF NOT EXISTS geocode_cache (
        name TEXT PRIMARY KEY,
        lat REAL NOT NULL,
        lon REAL NOT NULL
    );
	`}
	case DialectPostgres:
		statements = []string{`
	CREATE TABLE IF NOT EXISTS geocode_cache (
        name TEXT PRIMARY KEY,
        lat DOUBLE PRECISION NOT NULL,
        lon DOUBLE PRECISION NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    );
	`}
	default:
		return fmt.Errorf("init schema: unsupported dialect %q", dialect)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type PlaceSeed struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Warm a geocode cache with known places from a JSON file.
// keyFn maps a display name to its cache key.
func SeedFromJSON(ctx context.Context, c ports.GeocodeCache, jsonPath string, keyFn func(string) string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed places: read %q: %w", jsonPath, err)
	}

	var data []PlaceSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed places: parse json: %w", err)
	}

	rows := make(map[string]domain.Coordinate, len(data))
	for i, item := range data {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return 0, fmt.Errorf("seed places: item at index %d: name cannot be empty", i+1)
		}

		coord, err := domain.NewCoordinate(item.Lat, item.Lon)
		if err != nil {
			return 0, fmt.Errorf("seed places: item %q at index %d: %w", name, i+1, err)
		}
		rows[keyFn(name)] = coord
	}

	if err := c.PutMany(ctx, rows); err != nil {
		return 0, fmt.Errorf("seed places: %w", err)
	}

	return len(rows), nil
}
