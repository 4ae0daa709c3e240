package out

import (
	"context"
	"time"
)

// Cache types used by the pipeline. Keys are namespaced per type.
const (
	CacheTypeClassification = "classification"
)

// Cache is the advisory cache collaborator. A miss or a cache failure must
// never prevent computing a fresh result.
type Cache interface {
	// GetJSON loads a cached value into dest. Returns false on miss.
	GetJSON(ctx context.Context, cacheType, key string, dest interface{}) (bool, error)

	// SetJSON stores a value with a TTL.
	SetJSON(ctx context.Context, cacheType, key string, value interface{}, ttl time.Duration) error
}
