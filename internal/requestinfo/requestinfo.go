//
//  internal/requestinfo/requestinfo.go
//
//  Per-request metadata: correlation id, client IP, user-agent class, and
//  arrival time.  The struct is inert.  It holds no database handles or
//  large buffers, so it is safe to log or JSON-encode.
//

package requestinfo

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/yanizio/botfleet/internal/ua"
)

// Info is stored in the request context by Enrich and read by the access
// log, the metrics middleware, and handler error logs.
type Info struct {
	RequestID string
	IP        net.IP
	UA        ua.Info
	Start     time.Time
}

type ctxKey struct{} // unexported, collision-proof

// FromContext returns the pointer previously stored by Enrich, or nil when
// the middleware has not run.
func FromContext(ctx context.Context) *Info {
	v, _ := ctx.Value(ctxKey{}).(*Info)
	return v
}

// RequestID returns the correlation id for ctx, or the empty string when
// the middleware has not run.  Handlers use it to tie error logs to access
// log lines.
func RequestID(ctx context.Context) string {
	if info := FromContext(ctx); info != nil {
		return info.RequestID
	}
	return ""
}

// clientIP extracts the left-most address from X-Forwarded-For or
// X-Real-IP, falling back to r.RemoteAddr ("ip:port").
func clientIP(r *http.Request) net.IP {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
				return ip
			}
		}
	}
	if xrip := r.Header.Get("X-Real-Ip"); xrip != "" {
		if ip := net.ParseIP(strings.TrimSpace(xrip)); ip != nil {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return net.ParseIP(host)
	}
	return nil
}
