// Package cache holds rendered public pages in memory, keyed by request
// path. Mutations to the records behind a page invalidate its entry, so
// a stale page lives at most until the next back-office write.
package cache

import (
	"bytes"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/telemetry"
)

type entry struct {
	body        []byte
	contentType string
	storedAt    time.Time
}

// Cache is a path-keyed store of rendered responses. The zero value is
// not usable; use New.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// New returns an empty cache. A zero ttl disables expiry, leaving
// Invalidate as the only way an entry leaves the cache. metrics may be
// nil.
func New(ttl time.Duration, metrics *telemetry.Metrics, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		metrics: metrics,
		logger:  logger,
	}
}

// Get returns the cached body and content type for a path.
func (c *Cache) Get(path string) ([]byte, string, bool) {
	c.mu.RLock()
	e, ok := c.entries[path]
	c.mu.RUnlock()
	if !ok {
		return nil, "", false
	}
	if c.ttl > 0 && time.Since(e.storedAt) > c.ttl {
		c.Invalidate(path)
		return nil, "", false
	}
	return e.body, e.contentType, true
}

// Set stores a rendered body under a path, replacing any previous entry.
func (c *Cache) Set(path string, body []byte, contentType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = entry{
		body:        append([]byte(nil), body...),
		contentType: contentType,
		storedAt:    time.Now(),
	}
}

// Invalidate drops the entry for a path. Unknown paths are a no-op.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

type recorder struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (r *recorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *recorder) Write(p []byte) (int, error) {
	r.buf.Write(p)
	return r.ResponseWriter.Write(p)
}

// Wrap serves cached GET responses and records cache misses that render
// with a 200. Non-GET requests and error responses pass through untouched.
func (c *Cache) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		if body, contentType, ok := c.Get(r.URL.Path); ok {
			if contentType != "" {
				w.Header().Set("Content-Type", contentType)
			}
			w.Header().Set("X-Cache", "hit")
			w.Write(body)
			if c.metrics != nil {
				c.metrics.CacheHit(r.Context())
			}
			return
		}
		if c.metrics != nil {
			c.metrics.CacheMiss(r.Context())
		}

		rec := &recorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		if rec.status == http.StatusOK && rec.buf.Len() > 0 {
			c.Set(r.URL.Path, rec.buf.Bytes(), w.Header().Get("Content-Type"))
		}
	})
}
