package mcp

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/jsxextract/pkg/extract"
)

// defaultCacheSize bounds the extract_jsx response cache.
const defaultCacheSize = 128

// responseCache remembers recent extract_jsx responses. Extraction is a pure
// function of its arguments, so clients that repeat a call (retries, preview
// then apply) get the same response without a reparse. Only the host keeps
// this cache; the extractor itself holds no state between calls.
type responseCache struct {
	entries *lru.Cache[string, *extractResponse]
	hits    atomic.Int64
	misses  atomic.Int64
}

func newResponseCache(size int, logger *slog.Logger) *responseCache {
	if size <= 0 {
		size = defaultCacheSize
	}
	entries, err := lru.NewWithEvict(size, func(key string, _ *extractResponse) {
		logger.Debug("LRU evicting extract response", "key", key[:12])
	})
	if err != nil {
		// Only reachable with a non-positive size.
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}
	return &responseCache{entries: entries}
}

// cacheKey hashes everything an extraction depends on.
func cacheKey(source string, start, end int, name string, opts extract.Options) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d:%d:%s:%t:%s:%s\x00", start, end, name, opts.Class, opts.BaseComponent, opts.Grammar)
	h.Write([]byte(source))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *responseCache) get(key string) (*extractResponse, bool) {
	resp, ok := c.entries.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return resp, ok
}

func (c *responseCache) add(key string, resp *extractResponse) {
	c.entries.Add(key, resp)
}

// CacheStats reports response cache usage.
type CacheStats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

func (c *responseCache) stats() CacheStats {
	return CacheStats{Entries: c.entries.Len(), Hits: c.hits.Load(), Misses: c.misses.Load()}
}
