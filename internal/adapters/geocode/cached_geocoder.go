package geocode

import (
	"context"
	"log/slog"
	"strings"

	"map-weather-service/internal/domain"
	"map-weather-service/internal/platform/metrics"
	"map-weather-service/internal/ports"
)

// CachedGeocoder serves forward lookups from a persistent cache before
// delegating to the wrapped geocoder. Reverse lookups always go upstream.
// Cache failures are logged and never fail a lookup.
type CachedGeocoder struct {
	next  ports.Geocoder
	cache ports.GeocodeCache
}

func NewCachedGeocoder(next ports.Geocoder, cache ports.GeocodeCache) *CachedGeocoder {
	return &CachedGeocoder{next: next, cache: cache}
}

// CacheKey is the normalized, case-folded form of a place name.
func CacheKey(name string) string {
	return strings.ToLower(normalize(name))
}

func (g *CachedGeocoder) ReverseGeocode(ctx context.Context, c domain.Coordinate) (string, error) {
	return g.next.ReverseGeocode(ctx, c)
}

func (g *CachedGeocoder) ForwardGeocode(ctx context.Context, name string) (domain.Coordinate, error) {
	key := CacheKey(name)
	if key == "" || g.cache == nil {
		return g.next.ForwardGeocode(ctx, name)
	}

	hits, err := g.cache.GetMany(ctx, []string{key})
	if err != nil {
		slog.Warn("geocode cache read failed", "key", key, "err", err)
	} else if c, ok := hits[key]; ok {
		metrics.GeocodeCacheHits.Inc()
		return c, nil
	}
	metrics.GeocodeCacheMisses.Inc()

	c, err := g.next.ForwardGeocode(ctx, name)
	if err != nil {
		return domain.Coordinate{}, err
	}

	if err := g.cache.PutMany(ctx, map[string]domain.Coordinate{key: c}); err != nil {
		slog.Warn("geocode cache write failed", "key", key, "err", err)
	}

	return c, nil
}
