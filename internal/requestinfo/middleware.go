// internal/requestinfo/middleware.go
//
// HTTP middleware that enriches each request with *Info.
//
/*
Context
--------
This handler sits first in the chain.  For every request it:

  1. Resolves the correlation id: an inbound value in the configured
     header is honored, otherwise a fresh UUID is generated.  The id is
     echoed on the response so clients can quote it when reporting
     problems.
  2. Extracts the left-most client IP from X-Forwarded-For or X-Real-IP,
     falling back to `r.RemoteAddr`.
  3. Parses the User-Agent header into a coarse classification.
  4. Stores an *Info value in `request.Context` under an unexported key,
     so downstream middleware and handlers read one struct instead of
     reparsing headers.

Notes
-----
  • All work is allocation-light and read-only; the middleware is safe
    under heavy concurrency.
  • Oxford commas, two spaces after periods.
*/
package requestinfo

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/yanizio/botfleet/internal/ua"
)

/*──────────────────────────── middleware ───────────────────────────────────*/

// Enrich returns middleware that attaches *Info and forwards.  headerName
// is the correlation-id header, e.g. "X-Request-ID".
func Enrich(headerName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := r.Header.Get(headerName)
			if rid == "" {
				rid = uuid.NewString()
			}
			w.Header().Set(headerName, rid)

			info := &Info{
				RequestID: rid,
				IP:        clientIP(r),
				UA:        ua.Parse(r.UserAgent()),
				Start:     time.Now().UTC(),
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, info)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
