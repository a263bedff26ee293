package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/FatimaaAlzahraa/RouteX/internal/service"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const driverStatusKey = "driver_status:all"

// DriverStatusCache — кэш полной проекции доступности водителей.
// Инвалидируется при каждом принятом StatusUpdate, TTL страхует
// от протухания при пропущенной инвалидации.
type DriverStatusCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewDriverStatusCache(addr, password string, db int, ttl time.Duration, log *zap.Logger) (*DriverStatusCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("Redis connected successfully", zap.String("addr", addr))

	return &DriverStatusCache{
		client: rdb,
		ttl:    ttl,
		log:    log,
	}, nil
}

func (c *DriverStatusCache) Get(ctx context.Context) ([]service.DriverStatus, bool) {
	raw, err := c.client.Get(ctx, driverStatusKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("redis get failed", zap.Error(err))
		}
		return nil, false
	}
	var list []service.DriverStatus
	if err := json.Unmarshal(raw, &list); err != nil {
		c.log.Warn("redis cached payload unreadable", zap.Error(err))
		return nil, false
	}
	return list, true
}

func (c *DriverStatusCache) Set(ctx context.Context, list []service.DriverStatus) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, driverStatusKey, raw, c.ttl).Err()
}

func (c *DriverStatusCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, driverStatusKey).Err()
}

func (c *DriverStatusCache) Close() error {
	return c.client.Close()
}
