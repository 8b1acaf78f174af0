package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/classbooking/config"
	"github.com/Domenick1991/classbooking/internal/domain"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

const classesKey = "cache:classes:upcoming"

// RedisCache stores the upcoming-class list as JSON in UTC.
type RedisCache struct {
	client     *redis.Client
	classesTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, tracing bool) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	if tracing {
		if err := redisotel.InstrumentTracing(client); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("instrument redis: %w", err)
		}
	}
	return &RedisCache{client: client, classesTTL: cfg.ClassesTTL()}, nil
}

// GetClasses returns nil without error on a cache miss.
func (c *RedisCache) GetClasses(ctx context.Context) ([]domain.Class, error) {
	data, err := c.client.Get(ctx, classesKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var classes []domain.Class
	if err := json.Unmarshal(data, &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

func (c *RedisCache) SetClasses(ctx context.Context, classes []domain.Class) error {
	payload, err := json.Marshal(classes)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, classesKey, payload, c.classesTTL).Err()
}

func (c *RedisCache) InvalidateClasses(ctx context.Context) error {
	return c.client.Del(ctx, classesKey).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
