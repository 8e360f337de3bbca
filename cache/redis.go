package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"salesdash/api/config"
	"salesdash/api/logger"
	"salesdash/api/metrics"
)

const keyPrefix = "dashboard:"

// Client caches rendered dashboards in Redis.
type Client struct {
	client *redis.Client
	ttl    time.Duration
}

func NewClient(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis client initialized", zap.String("addr", cfg.Addr), zap.Duration("ttl", cfg.TTL))
	return &Client{client: client, ttl: cfg.TTL}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Key identifies one dashboard view.
func Key(source string, start, end time.Time) string {
	return fmt.Sprintf("%s%s:%s:%s", keyPrefix, source, start.Format("2006-01-02"), end.Format("2006-01-02"))
}

func (c *Client) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	logger.Debug("Dashboard cached", zap.String("key", key), zap.Duration("ttl", c.ttl))
	return nil
}

// Get decodes the cached value into dst and reports whether it was found.
func (c *Client) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		metrics.CacheRequests.WithLabelValues("miss").Inc()
		return false, nil
	}
	if err != nil {
		metrics.CacheRequests.WithLabelValues("error").Inc()
		return false, fmt.Errorf("failed to get cache: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	metrics.CacheRequests.WithLabelValues("hit").Inc()
	return true, nil
}
