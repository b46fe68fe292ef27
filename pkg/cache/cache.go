// Package cache stores rendered frames between runs and between requests.
//
// The render command keys frames by script content and output options so a
// replay of an unchanged script is served from disk. The HTTP host keeps a
// short history of presented frames per session, optionally in Redis so
// several instances share it.
//
// Three backends implement [Cache]:
//   - [FileCache]: JSON entries under the XDG cache directory (CLI)
//   - [RedisCache]: go-redis backed entries with TTL (HTTP host)
//   - [NullCache]: never stores anything (--no-cache, tests)
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored data and whether the key was present.
	// A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs.
const (
	// FrameTTL bounds how long rendered script frames are kept.
	FrameTTL = 7 * 24 * time.Hour

	// SessionFrameTTL bounds how long HTTP host frame history is kept.
	SessionFrameTTL = 30 * time.Minute
)
