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

// SQLGeocodeCache is a postgres-backed cache mapping place names to coordinates.
type SQLGeocodeCache struct {
	DB *sql.DB
}

func NewSQLGeocodeCache(db *sql.DB) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db}
}

// Fetch cached coordinates for the given place names.
func (s *SQLGeocodeCache) GetMany(
	ctx context.Context,
	names []string,
) (_ map[string]domain.Coordinate, err error) {
	defer obs.Time(ctx, "geocode.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	uniq := uniqueKeys(names)
	if len(uniq) == 0 {
		return map[string]domain.Coordinate{}, nil
	}

	q := `
	SELECT name, lat, lon
    FROM geocode_cache
    WHERE name = ANY($1::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, uniq)
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}
	defer rows.Close()

	return scanCoordinates(rows, len(uniq))
}

// Store name -> coordinate mappings in the cache.
func (s *SQLGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinate) (err error) {
	defer obs.Time(ctx, "geocode.cache.PutMany")(&err)

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
	INSERT INTO geocode_cache (name, lat, lon)
    VALUES ($1, $2, $3)
	ON CONFLICT (name) DO UPDATE
	SET lat = EXCLUDED.lat,
		lon = EXCLUDED.lon;
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

func uniqueKeys(keys []string) []string {
	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}

		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	return uniq
}

func scanCoordinates(rows *sql.Rows, sizeHint int) (map[string]domain.Coordinate, error) {
	out := make(map[string]domain.Coordinate, sizeHint)
	for rows.Next() {
		var name string
		var lat, lon float64
		if err := rows.Scan(&name, &lat, &lon); err != nil {
			return nil, fmt.Errorf("get geocode cache: scan rows: %w", err)
		}
		out[name] = domain.Coordinate{Lat: lat, Lon: lon}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get geocode cache: row iteration: %w", err)
	}

	return out, nil
}
