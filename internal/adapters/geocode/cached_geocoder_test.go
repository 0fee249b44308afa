package geocode

import (
	"context"
	"errors"
	"testing"

	"map-weather-service/internal/domain"
)

type memoryCache struct {
	m      map[string]domain.Coordinate
	getErr error
	putErr error
	puts   int
}

func (c *memoryCache) GetMany(ctx context.Context, names []string) (map[string]domain.Coordinate, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	out := make(map[string]domain.Coordinate)
	for _, n := range names {
		if v, ok := c.m[n]; ok {
			out[n] = v
		}
	}
	return out, nil
}

func (c *memoryCache) PutMany(ctx context.Context, results map[string]domain.Coordinate) error {
	c.puts++
	if c.putErr != nil {
		return c.putErr
	}
	for k, v := range results {
		c.m[k] = v
	}
	return nil
}

func TestCachedGeocoderServesRepeatLookupsFromCache(t *testing.T) {
	upstream := NewMockGeocoder()
	upstream.Cities["nagpur"] = domain.Coordinate{Lat: 21.1458, Lon: 79.0882}

	cache := &memoryCache{m: map[string]domain.Coordinate{}}
	g := NewCachedGeocoder(upstream, cache)

	for _, q := range []string{"Nagpur", "  nagpur ", "NAGPUR"} {
		c, err := g.ForwardGeocode(context.Background(), q)
		if err != nil {
			t.Fatalf("ForwardGeocode(%q): unexpected error: %v", q, err)
		}
		if c.Lat != 21.1458 {
			t.Fatalf("ForwardGeocode(%q) = %+v", q, c)
		}
	}

	if _, forward := upstream.Calls(); forward != 1 {
		t.Fatalf("upstream forward calls = %d, want 1", forward)
	}
}

func TestCachedGeocoderDoesNotCacheNotFound(t *testing.T) {
	upstream := NewMockGeocoder()
	cache := &memoryCache{m: map[string]domain.Coordinate{}}
	g := NewCachedGeocoder(upstream, cache)

	for i := 0; i < 2; i++ {
		if _, err := g.ForwardGeocode(context.Background(), "Atlantis"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	}

	if cache.puts != 0 {
		t.Fatalf("cache puts = %d, want 0", cache.puts)
	}
	if _, forward := upstream.Calls(); forward != 2 {
		t.Fatalf("upstream forward calls = %d, want 2", forward)
	}
}

func TestCachedGeocoderIgnoresCacheFailures(t *testing.T) {
	upstream := NewMockGeocoder()
	upstream.Cities["paris"] = domain.Coordinate{Lat: 48.8566, Lon: 2.3522}

	cache := &memoryCache{
		m:      map[string]domain.Coordinate{},
		getErr: errors.New("connection reset"),
		putErr: errors.New("read-only"),
	}
	g := NewCachedGeocoder(upstream, cache)

	c, err := g.ForwardGeocode(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Lon != 2.3522 {
		t.Fatalf("coordinate = %+v", c)
	}
}

func TestCachedGeocoderReverseBypassesCache(t *testing.T) {
	upstream := NewMockGeocoder()
	at := domain.Coordinate{Lat: 20, Lon: 78}
	upstream.Places[at] = "Nagpur"

	cache := &memoryCache{m: map[string]domain.Coordinate{}}
	g := NewCachedGeocoder(upstream, cache)

	name, err := g.ReverseGeocode(context.Background(), at)
	if err != nil || name != "Nagpur" {
		t.Fatalf("ReverseGeocode = %q, %v", name, err)
	}
	if cache.puts != 0 {
		t.Fatalf("cache puts = %d, want 0", cache.puts)
	}
}
