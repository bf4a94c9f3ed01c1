// Package cache holds recently read image payloads in memory so repeated
// HTTP reads skip the store lock and the disk. Entries are keyed by store
// version, resolution and image id; every store mutation bumps the version,
// so stale entries are simply never hit again and age out by cost.
package cache

import (
	"encoding/hex"
	"fmt"

	"github.com/dgraph-io/ristretto"
	"lukechampine.com/blake3"

	"github.com/hoperedemption/imgfs/internal/logger"
)

type PayloadCache struct {
	cache *ristretto.Cache
}

// New creates a payload cache bounded to maxSizeMB of payload bytes.
func New(maxSizeMB int) (*PayloadCache, error) {
	maxCost := int64(maxSizeMB) * 1024 * 1024

	// Assume an average payload around 100KB when sizing the key tracker.
	numCounters := maxCost / (100 * 1024) * 10
	if numCounters < 1000 {
		numCounters = 1000
	}

	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: numCounters,
		MaxCost:     maxCost,
		BufferItems: 64,
		Metrics:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ristretto cache: %w", err)
	}

	logger.Infof("[PayloadCache] Initialized: max %dMB", maxSizeMB)

	return &PayloadCache{cache: c}, nil
}

// Key derives the cache key for one read result.
func Key(version uint32, res string, imgID string) string {
	sum := blake3.Sum256([]byte(fmt.Sprintf("%d|%s|%s", version, res, imgID)))
	return hex.EncodeToString(sum[:])
}

func (c *PayloadCache) Get(key string) ([]byte, bool) {
	value, found := c.cache.Get(key)
	if !found {
		return nil, false
	}
	data, ok := value.([]byte)
	if !ok {
		return nil, false
	}
	return data, true
}

// Set stores data under key, costed by its size. A false return means the
// entry was rejected; callers do not care.
func (c *PayloadCache) Set(key string, data []byte) bool {
	return c.cache.Set(key, data, int64(len(data)))
}

// Wait blocks until pending writes are applied. Used by tests.
func (c *PayloadCache) Wait() {
	c.cache.Wait()
}

func (c *PayloadCache) Close() {
	c.cache.Close()
}
