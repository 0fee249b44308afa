package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"map-weather-service/internal/domain"
	"map-weather-service/internal/platform/obs"
)

// SQLite backed cache mapping place names to geographic coordinates.
// Name keys are expected to be consistent (e.g., normalized)
// by the caller.
type SqliteGeocodeCache struct {
	DB *sql.DB
}

func NewSqliteGeocodeCache(db *sql.DB) *SqliteGeocodeCache {
	return &SqliteGeocodeCache{DB: db}
}

// Fetch cached coordinates for the given place names.
func (s *SqliteGeocodeCache) GetMany(
	ctx context.Context,
	names []string,
) (_ map[string]domain.Coordinate, err error) {
	defer obs.Time(ctx, "geocode.sqlite.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	uniq := uniqueKeys(names)
	if len(uniq) == 0 {
		return map[string]domain.Coordinate{}, nil
	}

	ph := make([]string, 0, len(uniq))
	args := make([]any, 0, len(uniq))
	for _, n := range uniq {
		ph = append(ph, "?")
		args = append(args, n)
	}

	// SQLite does not support binding slices directly in an IN (...) clause.
	// Only the placeholder structure is interpolated; all values remain parameterized.
	q := fmt.Sprintf(`
	SELECT 
        name,
        lat,
        lon
    FROM geocode_cache
    WHERE name IN (%s);
	`, strings.Join(ph, ","))

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}
	defer rows.Close()

	return scanCoordinates(rows, len(uniq))
}

// Store name -> coordinate mappings in the cache.
func (s *SqliteGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinate) (err error) {
	defer obs.Time(ctx, "geocode.sqlite.PutMany")(&err)

	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert geocode cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT OR REPLACE INTO geocode_cache (
        name,
        lat,
        lon
    )
    VALUES (?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("insert geocode cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for name, c := range results {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("insert geocode cache: empty name key")
		}

		if _, err := stmt.ExecContext(ctx, name, c.Lat, c.Lon); err != nil {
			return fmt.Errorf("insert geocode cache name=%q: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert geocode cache commit: %w", err)
	}

	return nil
}
