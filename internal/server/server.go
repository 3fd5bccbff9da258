// internal/server/server.go
//
// Root handler assembly.
//
// Context
// -------
// Build wires the global middleware chain, the operational endpoints
// (/healthz, /metrics), every registered component under the API prefix,
// the OpenAPI document, and the embedded admin dashboard into one chi
// router.  cmd/api hands the result to server.New for timeouts and owns
// the listen/shutdown life-cycle.
//
// Middleware order
// ----------------
//  1. requestinfo.Enrich   – request id, client IP, UA classification.
//  2. middleware.AccessLog – one structured line per request.
//  3. middleware.Metrics   – Prometheus counters and latency histogram.
//  4. middleware.Security  – response hardening headers.
//  5. middleware.CORS      – origin allow-list and preflight.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/botfleet/internal/admin"
	"github.com/yanizio/botfleet/internal/component"
	"github.com/yanizio/botfleet/internal/config"
	"github.com/yanizio/botfleet/internal/crud"
	"github.com/yanizio/botfleet/internal/middleware"
	"github.com/yanizio/botfleet/internal/requestinfo"
)

// Build assembles the root handler.  Components must be registered (via
// their package init functions) before this runs.
func Build(cfg *config.Config, env *component.Env, doc *crud.Doc) chi.Router {
	r := chi.NewRouter()

	r.Use(requestinfo.Enrich(cfg.HTTP.RequestIDHeader))
	r.Use(middleware.AccessLog(env.Log))
	r.Use(middleware.Metrics)
	r.Use(middleware.Security)
	r.Use(middleware.CORS(cfg.CORS.Origins()))

	r.Get("/healthz", healthHandler(env))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route(cfg.API.Prefix, func(api chi.Router) {
		for _, c := range component.All() {
			api.Mount(c.Prefix(), c.Mount(env))
		}
		if cfg.API.DocsEnabled {
			api.Get("/openapi.json", docHandler(doc, env.Log))
		}
	})

	r.Mount("/admin", http.StripPrefix("/admin", admin.Handler()))

	return r
}

/*──────────────────────── operational endpoints ───────────────────────────*/

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Checks  struct {
		Database string `json:"database"`
	} `json:"checks"`
}

// healthHandler reports liveness plus a bounded database ping.  A failing
// ping yields 503 so orchestrators stop routing traffic here.
func healthHandler(env *component.Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok", Version: env.Version}
		resp.Checks.Database = "ok"

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := env.DB.PingContext(ctx); err != nil {
			resp.Status = "fail"
			resp.Checks.Database = "fail"
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if resp.Status != "ok" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// docHandler serves the pre-built OpenAPI document.  Serialization is
// cached inside Doc, so repeated requests cost one buffer copy.
func docHandler(doc *crud.Doc, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buf, err := doc.JSON()
		if err != nil {
			log.Error("openapi serialization failed", zap.Error(err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write(buf)
	}
}
