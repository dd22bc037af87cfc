package geo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"tableflip.dev/journal/pkg/journal"
)

const cachePrefix = "journal:geocode:"

// Cached remembers reverse geocoding answers in Redis. Positions are
// rounded to about 10 meters so nearby fixes share an entry.
type Cached struct {
	Geocoder Geocoder
	Client   *redis.Client
	TTL      time.Duration
}

// ConnectRedis opens a client for url and checks that it answers.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("geo: parse redis url: %w", err)
	}
	opt.PoolSize = 4
	opt.MaxRetries = 2
	opt.DialTimeout = 3 * time.Second
	opt.ReadTimeout = 2 * time.Second
	opt.WriteTimeout = 2 * time.Second

	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("geo: ping redis: %w", err)
	}
	return client, nil
}

func cacheKey(c journal.Coordinates) string {
	return fmt.Sprintf("%s%.4f,%.4f", cachePrefix, c.Latitude, c.Longitude)
}

func (c *Cached) Reverse(ctx context.Context, at journal.Coordinates) (string, error) {
	key := cacheKey(at)
	addr, err := c.Client.Get(ctx, key).Result()
	switch {
	case err == nil:
		return addr, nil
	case errors.Is(err, redis.Nil):
	default:
		// A broken cache should not stop geocoding.
		zap.S().Warnw("geocode cache read failed", "key", key, "error", err)
	}

	addr, err = c.Geocoder.Reverse(ctx, at)
	if err != nil {
		return "", err
	}
	ttl := c.TTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	if err := c.Client.Set(ctx, key, addr, ttl).Err(); err != nil {
		zap.S().Warnw("geocode cache write failed", "key", key, "error", err)
	}
	return addr, nil
}
