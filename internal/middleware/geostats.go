package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"
)

// GeoStats keeps a rolling count of visitor countries from the CDN's
// country header. Purely informational; shown on the status endpoint.
type GeoStats struct {
	mu        sync.RWMutex
	visitors  map[string]time.Time
	countries map[string]int
}

func NewGeoStats(ctx context.Context) *GeoStats {
	g := &GeoStats{
		visitors:  make(map[string]time.Time),
		countries: make(map[string]int),
	}

	go g.backgroundCleanup(ctx)
	return g
}

const visitorValidity = 24 * time.Hour
const geoCleanupFrequency = 15 * time.Minute

func (g *GeoStats) backgroundCleanup(ctx context.Context) {
	ticker := time.NewTicker(geoCleanupFrequency)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.cleanup()
		}
	}
}

func (g *GeoStats) cleanup() {
	cutOff := time.Now().UTC().Add(-visitorValidity)

	g.mu.Lock()
	defer g.mu.Unlock()

	for ip, lastSeen := range g.visitors {
		if lastSeen.Before(cutOff) {
			delete(g.visitors, ip)
		}
	}
}

// Record notes a visit. Each IP counts toward its country once per
// validity window.
func (g *GeoStats) Record(ip, countryCode string) {
	if ip == "" {
		return
	}
	if countryCode == "" {
		countryCode = "XX"
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.visitors[ip]; !ok {
		g.countries[countryCode]++
	}
	g.visitors[ip] = time.Now().UTC()
}

type CountryStat struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}

func (g *GeoStats) GetTopCountries(n int) []*CountryStat {
	if n < 1 {
		return nil
	}

	stats := make([]*CountryStat, 0, n)

	g.mu.RLock()
	for code, count := range g.countries {
		stats = append(stats, &CountryStat{Code: code, Count: count})
	}
	g.mu.RUnlock()

	slices.SortStableFunc(stats, func(a, b *CountryStat) int {
		return b.Count - a.Count
	})

	return stats[:min(n, len(stats))]
}

func (g *GeoStats) Middleware(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			go func() {
				code := r.Header.Get("CF-IPCountry")
				ip := getProxyClientIP(r)

				g.Record(ip, code)
				logger.Debug("geo", "ip", ip, "code", code)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
