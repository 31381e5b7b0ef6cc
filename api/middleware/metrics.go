package middleware

import (
	"net/http"
	"time"
)

// RequestObserver receives one observation per completed request.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// Metrics records request counts and latency keyed by the matched chi route
// pattern so path parameters do not explode label cardinality.
func Metrics(observer RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if observer == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r)

			route := "unmatched"
			if pattern := chiPattern(r); pattern != "" {
				route = pattern
			}
			observer.ObserveRequest(r.Method, route, rec.Status(), time.Since(start))
		})
	}
}
