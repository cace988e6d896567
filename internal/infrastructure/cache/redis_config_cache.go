package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	appix "github.com/truckticketing/backend/internal/application/invoiceexchange"
	"github.com/truckticketing/backend/internal/domain/invoiceexchange"
)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisConfigCache caches resolved invoice-exchange configurations in Redis.
// Suitable for distributed deployments where multiple instances share the
// cache; entries are stored as JSON.
type RedisConfigCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisConfigCache creates a new Redis-backed resolved-config cache
func NewRedisConfigCache(cfg RedisConfig) (*RedisConfigCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisConfigCache{
		client:    client,
		keyPrefix: "invoiceexchange:resolved:",
	}, nil
}

// NewRedisConfigCacheWithClient creates a cache with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisConfigCacheWithClient(client *redis.Client, keyPrefix string) *RedisConfigCache {
	if keyPrefix == "" {
		keyPrefix = "invoiceexchange:resolved:"
	}
	return &RedisConfigCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (c *RedisConfigCache) key(platformCode string, customerID uuid.UUID) string {
	return c.keyPrefix + platformCode + ":" + customerID.String()
}

// Get retrieves a cached resolved config. A missing key is a cache miss, not
// an error.
func (c *RedisConfigCache) Get(ctx context.Context, platformCode string, customerID uuid.UUID) (*invoiceexchange.InvoiceExchangeConfig, bool, error) {
	data, err := c.client.Get(ctx, c.key(platformCode, customerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read resolved config from cache: %w", err)
	}

	var config invoiceexchange.InvoiceExchangeConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached resolved config: %w", err)
	}
	return &config, true, nil
}

// Set stores a resolved config with the given TTL
func (c *RedisConfigCache) Set(ctx context.Context, platformCode string, customerID uuid.UUID, config *invoiceexchange.InvoiceExchangeConfig, ttl time.Duration) error {
	if config == nil {
		return nil
	}

	data, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode resolved config: %w", err)
	}
	if err := c.client.Set(ctx, c.key(platformCode, customerID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write resolved config to cache: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisConfigCache) Close() error {
	return c.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisConfigCache) GetClient() *redis.Client {
	return c.client
}

// Ensure RedisConfigCache implements ConfigCache
var _ appix.ConfigCache = (*RedisConfigCache)(nil)
