package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"gramfix/internal/domain"
)

// Keys are namespaced with a fixed prefix and derived from the original,
// unnormalized request URL. Host variants that normalize to the same page
// therefore occupy separate slots; that is deliberate.
const metadataKeyPrefix = "metadata:"

// MetadataCache implements domain.MetadataCache on top of Redis with
// passive TTL expiry.
type MetadataCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewMetadataCache creates a Redis-backed metadata cache
func NewMetadataCache(client *redis.Client, logger *slog.Logger) *MetadataCache {
	return &MetadataCache{
		client: client,
		logger: logger,
	}
}

// Get returns the serialized metadata stored for a URL, or
// domain.ErrCacheMiss when no live entry exists.
func (c *MetadataCache) Get(ctx context.Context, url string) (string, error) {
	value, err := c.client.Get(ctx, metadataKeyPrefix+url).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrCacheMiss
		}
		return "", fmt.Errorf("failed to read metadata cache: %w", err)
	}

	c.logger.Debug("Metadata cache hit", "url", url)
	return value, nil
}

// Put stores serialized metadata for a URL. Entries are never deleted
// explicitly; they expire after the TTL.
func (c *MetadataCache) Put(ctx context.Context, url, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, metadataKeyPrefix+url, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write metadata cache: %w", err)
	}

	c.logger.Debug("Metadata cached", "url", url, "ttl", ttl)
	return nil
}
