package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"map-weather-service/internal/domain"
	"map-weather-service/internal/platform/obs"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "geocode:"

// RedisGeocodeCache stores name -> coordinate mappings as JSON strings with a TTL.
// A zero TTL keeps entries until evicted.
type RedisGeocodeCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisGeocodeCache(client *redis.Client, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{Client: client, TTL: ttl}
}

// Fetch cached coordinates for the given place names.
func (r *RedisGeocodeCache) GetMany(
	ctx context.Context,
	names []string,
) (_ map[string]domain.Coordinate, err error) {
	defer obs.Time(ctx, "geocode.redis.GetMany")(&err)

	if r.Client == nil {
		return nil, errors.New("geocode cache: redis client is nil")
	}

	uniq := uniqueKeys(names)
	if len(uniq) == 0 {
		return map[string]domain.Coordinate{}, nil
	}

	keys := make([]string, 0, len(uniq))
	for _, n := range uniq {
		keys = append(keys, redisKeyPrefix+n)
	}

	vals, err := r.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: mget: %w", err)
	}

	out := make(map[string]domain.Coordinate, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}

		var c domain.Coordinate
		if err := json.Unmarshal([]byte(s), &c); err != nil {
			return nil, fmt.Errorf("get geocode cache: decode %q: %w", uniq[i], err)
		}
		out[uniq[i]] = c
	}

	return out, nil
}

// Store name -> coordinate mappings in a single pipeline round trip.
func (r *RedisGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinate) (err error) {
	defer obs.Time(ctx, "geocode.redis.PutMany")(&err)

	if r.Client == nil {
		return errors.New("geocode cache: redis client is nil")
	}

	if len(results) == 0 {
		return nil
	}

	pipe := r.Client.TxPipeline()
	for name, c := range results {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("insert geocode cache: empty name key")
		}

		b, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("insert geocode cache name=%q: %w", name, err)
		}
		pipe.Set(ctx, redisKeyPrefix+name, b, r.TTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert geocode cache exec: %w", err)
	}

	return nil
}
