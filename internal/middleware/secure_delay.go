package middleware

import (
	"net/http"
	"time"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/telemetry"
)

// SecureDelay pads a handler's response time up to target so login
// failures take as long as successes regardless of where they bail out.
func SecureDelay(target time.Duration, metrics *telemetry.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			elapsed := time.Since(start)
			if metrics != nil {
				metrics.AuthWorkDuration.Record(r.Context(), elapsed.Seconds())
			}

			if remaining := target - elapsed; remaining > 0 {
				timer := time.NewTimer(remaining)
				defer timer.Stop()

				select {
				case <-r.Context().Done():
					return
				case <-timer.C:
				}
			}
		})
	}
}
