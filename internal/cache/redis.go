package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/flightman/flightman-api/config"
	"github.com/flightman/flightman-api/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     *redis.Client
	flightsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL: flightsTTL,
	}
}

func (c *RedisCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, flightsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, flightsKey(), payload, c.flightsTTL).Err()
}

func (c *RedisCache) InvalidateFlights(ctx context.Context) error {
	return c.client.Del(ctx, flightsKey()).Err()
}

// AcquireFlightLock serializes booking mutations per flight so that two
// concurrent creations cannot both pass the capacity check.
func (c *RedisCache) AcquireFlightLock(ctx context.Context, flightID uuid.UUID, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, flightLockKey(flightID), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseFlightLock(ctx context.Context, flightID uuid.UUID) error {
	return c.client.Del(ctx, flightLockKey(flightID)).Err()
}

// AcquireUserLock serializes point-balance read-modify-write per user.
func (c *RedisCache) AcquireUserLock(ctx context.Context, userID uuid.UUID, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, userLockKey(userID), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseUserLock(ctx context.Context, userID uuid.UUID) error {
	return c.client.Del(ctx, userLockKey(userID)).Err()
}

func flightsKey() string {
	return "cache:flights"
}

func flightLockKey(flightID uuid.UUID) string {
	return fmt.Sprintf("lock:flight:%s", flightID)
}

func userLockKey(userID uuid.UUID) string {
	return fmt.Sprintf("lock:user:%s", userID)
}
