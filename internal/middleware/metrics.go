// internal/middleware/metrics.go
//
// Prometheus HTTP metrics.
//
// Labels use the chi route pattern ("/api/bots/{id}"), never the raw path,
// so identifier segments cannot blow up metric cardinality.  Requests that
// match no route are bucketed under "unrouted".

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/botfleet/internal/metrics"
)

// Metrics records request counts and latencies for every response.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := newStatusWriter(w)

		next.ServeHTTP(sw, r)

		route := "unrouted"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}

		metrics.HTTPRequestsTotal.
			WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
		metrics.HTTPRequestDuration.
			WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
