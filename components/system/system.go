// components/system/system.go
//
// System Component – operational introspection.
//
// Context
//   Two hand-written endpoints that sit outside the generated CRUD
//   surface.  /system/health is the in-prefix health probe ({"status":
//   "ok"} plus build info), and /system/info echoes what the server
//   knows about the caller: request id, client IP, and the parsed
//   user-agent.  The echo endpoint earns its keep whenever a rig
//   operator asks "what do my requests look like from your side".
//
//------------------------------------------------------------------------------

package system

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/botfleet/internal/component"
	"github.com/yanizio/botfleet/internal/crud"
	"github.com/yanizio/botfleet/internal/requestinfo"
)

// compile-time assertion
var _ component.Component = (*Comp)(nil)

func init() { component.Register(&Comp{}) }

var started = time.Now()

// Comp implements component.Component; it owns no schema.
type Comp struct{}

func (c *Comp) Name() string   { return "system" }
func (c *Comp) Prefix() string { return "/system" }

func (c *Comp) Mount(env *component.Env) chi.Router {
	r := chi.NewRouter()
	r.Get("/health", health(env))
	r.Get("/info", info)
	return r
}

func (c *Comp) Migrations() []string { return nil }

// Document is a no-op; these endpoints are an internal surface and stay
// out of the published API document.
func (c *Comp) Document(_ *crud.Doc, _ string) {}

/*──────────────────────────── handlers ────────────────────────────────────*/

// health writes the classic {"status":"ok"} body, enriched with build
// metadata.  Unlike /healthz it never touches the database; it answers
// "is the process serving requests" and nothing more.
func health(env *component.Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := map[string]any{
			"status":    "ok",
			"version":   env.Version,
			"go":        runtime.Version(),
			"uptime_s":  int64(time.Since(started).Seconds()),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}
		writeJSON(w, out)
	}
}

// info echoes selected request context fields.
func info(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{
		"method": r.Method,
		"path":   r.URL.Path,
		"query":  r.URL.RawQuery,
		"ua_raw": r.UserAgent(),
	}
	if ri := requestinfo.FromContext(r.Context()); ri != nil {
		out["request_id"] = ri.RequestID
		out["ip"] = ri.IP.String()
		out["ua"] = ri.UA
	}
	writeJSON(w, out)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
