package domain

import (
	"context"
	"time"
)

// MetadataCache defines the contract toward the key/value store that holds
// serialized LinkMetadata between fetches. Implementations key entries by
// the original, unnormalized request URL; TTL handling is the store's job.
type MetadataCache interface {
	// Get returns the serialized metadata for a URL, or ErrCacheMiss if
	// no entry exists (or it has expired).
	Get(ctx context.Context, url string) (string, error)

	// Put stores serialized metadata for a URL with the given TTL.
	Put(ctx context.Context, url, value string, ttl time.Duration) error
}

// LinkRepository defines the interface for processed-link records
type LinkRepository interface {
	// Create inserts a new link record
	Create(ctx context.Context, link *Link) error

	// GetByMessageID retrieves the link recorded for a Discord message
	GetByMessageID(ctx context.Context, messageID string) (*Link, error)

	// Count returns the total number of recorded links
	Count(ctx context.Context) (int, error)

	// CountByGuild returns the number of links recorded for a server
	CountByGuild(ctx context.Context, guildID string) (int, error)

	// GetRecentByGuild gets the most recent links for a server
	GetRecentByGuild(ctx context.Context, guildID string, limit int) ([]*Link, error)
}
