// internal/middleware/accesslog.go
//
// Per-request access logging.
//
// Context
// -------
// One structured line per finished request.  Severity tracks the response
// status: 5xx logs at error, 4xx at warn, everything else at info.  The
// request id, client IP, and user-agent classification come from the
// requestinfo middleware, which must be mounted further out in the chain.
//
// Notes
// -----
// • Durations are reported in milliseconds with microsecond precision.
// • Oxford commas, two spaces after periods.

package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/botfleet/internal/requestinfo"
)

// AccessLog returns a middleware that logs every request to log.
func AccessLog(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusWriter(w)

			next.ServeHTTP(sw, r)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", sw.status),
				zap.Int64("bytes", sw.bytes),
				zap.Float64("dur_ms", float64(time.Since(start).Microseconds())/1000),
			}
			if info := requestinfo.FromContext(r.Context()); info != nil {
				fields = append(fields,
					zap.String("request_id", info.RequestID),
					zap.String("ip", info.IP.String()),
					zap.String("ua", info.UA.Label()),
				)
			}

			switch {
			case sw.status >= 500:
				log.Error("request", fields...)
			case sw.status >= 400:
				log.Warn("request", fields...)
			default:
				log.Info("request", fields...)
			}
		})
	}
}
