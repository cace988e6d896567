package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	appix "github.com/truckticketing/backend/internal/application/invoiceexchange"
	"github.com/truckticketing/backend/internal/domain/invoiceexchange"
	"go.uber.org/zap"
)

const defaultCleanupInterval = 30 * time.Second

// InMemoryConfigCache caches resolved invoice-exchange configurations in
// process memory. Suitable for single-instance deployments and as a fallback
// when Redis is not configured.
type InMemoryConfigCache struct {
	entries sync.Map // map[string]*configEntry
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	hits   int64
	misses int64
}

// configEntry wraps a cached config with its expiration time
type configEntry struct {
	config    *invoiceexchange.InvoiceExchangeConfig
	expiresAt time.Time
}

func (e *configEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// NewInMemoryConfigCache creates a new in-memory resolved-config cache
func NewInMemoryConfigCache(logger *zap.Logger) *InMemoryConfigCache {
	c := &InMemoryConfigCache{
		logger: logger,
		stopCh: make(chan struct{}),
	}
	go c.cleanupExpired()
	return c
}

func resolvedConfigKey(platformCode string, customerID uuid.UUID) string {
	return platformCode + ":" + customerID.String()
}

// Get retrieves a cached resolved config. The second return reports whether a
// live entry was found.
func (c *InMemoryConfigCache) Get(_ context.Context, platformCode string, customerID uuid.UUID) (*invoiceexchange.InvoiceExchangeConfig, bool, error) {
	key := resolvedConfigKey(platformCode, customerID)

	if value, ok := c.entries.Load(key); ok {
		entry := value.(*configEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			return entry.config, true, nil
		}
		c.entries.Delete(key)
	}

	atomic.AddInt64(&c.misses, 1)
	return nil, false, nil
}

// Set stores a resolved config with the given TTL
func (c *InMemoryConfigCache) Set(_ context.Context, platformCode string, customerID uuid.UUID, config *invoiceexchange.InvoiceExchangeConfig, ttl time.Duration) error {
	if config == nil {
		return nil
	}
	c.entries.Store(resolvedConfigKey(platformCode, customerID), &configEntry{
		config:    config,
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

// InvalidateAll drops every cached entry
func (c *InMemoryConfigCache) InvalidateAll(_ context.Context) error {
	c.entries.Range(func(key, _ any) bool {
		c.entries.Delete(key)
		return true
	})
	c.logger.Info("Invalidated resolved-config cache")
	return nil
}

// Close stops the background cleanup goroutine
func (c *InMemoryConfigCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// Stats returns cache hit/miss counters
func (c *InMemoryConfigCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// cleanupExpired periodically removes expired entries
func (c *InMemoryConfigCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			removed := 0
			c.entries.Range(func(key, value any) bool {
				if value.(*configEntry).isExpired() {
					c.entries.Delete(key)
					removed++
				}
				return true
			})
			if removed > 0 {
				c.logger.Debug("Cleaned up expired resolved-config entries",
					zap.Int("removed", removed))
			}
		}
	}
}

// Ensure InMemoryConfigCache implements ConfigCache
var _ appix.ConfigCache = (*InMemoryConfigCache)(nil)
