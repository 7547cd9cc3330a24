package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/middleware"
)

// StatusHandler reports process health for operators: memory, goroutines
// and the visitor country tally.
type StatusHandler struct {
	GeoStats *middleware.GeoStats
}

func (h *StatusHandler) HandleStatus() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		stats := struct {
			Alloc        string                    `json:"allocated_heap_mb"`
			TotalAlloc   string                    `json:"total_alloc_mb"`
			Sys          string                    `json:"system_obtained_mb"`
			NumGC        uint32                    `json:"gc_cycles"`
			CurrentTime  time.Time                 `json:"server_time"`
			Goroutines   int                       `json:"goroutines"`
			Cores        int                       `json:"cpu_cores"`
			TopCountries []*middleware.CountryStat `json:"top_countries"`
		}{
			Alloc:        bToMb(m.Alloc),
			TotalAlloc:   bToMb(m.TotalAlloc),
			Sys:          bToMb(m.Sys),
			NumGC:        m.NumGC,
			CurrentTime:  time.Now().Local().Truncate(time.Millisecond),
			Goroutines:   runtime.NumGoroutine(),
			Cores:        runtime.NumCPU(),
			TopCountries: h.GeoStats.GetTopCountries(20),
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(stats)
	})
}

func bToMb(b uint64) string {
	return fmt.Sprintf("%.2f MB", float64(b)/1024/1024)
}
