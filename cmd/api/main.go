// cmd/api/main.go
//
// Botfleet – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load config (conf/.env → conf/global.yaml → BOTFLEET_ env overrides,
//     with vault: references resolved in between).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Open the Postgres pool and fail fast on a dead database.
//
//  4. Apply component migrations in name order.
//
//  5. Build and validate the OpenAPI document from every registered
//     component.
//
//  6. Assemble the router, serve, and drain in-flight requests for up to
//     10 s on SIGINT or SIGTERM.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yanizio/botfleet/internal/component"
	"github.com/yanizio/botfleet/internal/config"
	"github.com/yanizio/botfleet/internal/crud"
	"github.com/yanizio/botfleet/internal/database"
	"github.com/yanizio/botfleet/internal/logger"
	"github.com/yanizio/botfleet/internal/server"

	_ "github.com/yanizio/botfleet/components/bots"
	_ "github.com/yanizio/botfleet/components/system"
)

// version is stamped at build time:
//
//	go build -ldflags "-X main.version=v1.4.0" ./cmd/api
var version = "dev"

const shutdownGrace = 10 * time.Second

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	//
	// ── 1.  Configuration ───────────────────────────────────────────────
	//
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	//
	// ── 2.  Logger ──────────────────────────────────────────────────────
	//
	logDir := cfg.Log.Dir
	if logDir == "" {
		logDir = filepath.Join(cfg.Paths.Root, "logs")
	}
	logOut, err := logger.New(logDir, cfg.Log.Level, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = logOut.Sync() }()
	logOut.Infow("botfleet starting", "version", version)

	//
	// ── 3.  Database ────────────────────────────────────────────────────
	//
	maxOpen, maxIdle := cfg.Database.MaxOpen, cfg.Database.MaxIdle
	if maxOpen <= 0 {
		maxOpen = 15
	}
	if maxIdle <= 0 {
		maxIdle = 5
	}
	db, err := database.OpenWithOptions(cfg.Database.BuildDSN(), maxOpen, maxIdle)
	if err != nil {
		logOut.Fatalw("connect database", "err", err)
	}
	defer db.Close()
	logOut.Infow("database online", "max_open", maxOpen, "max_idle", maxIdle)

	//
	// ── 4.  Migrations ──────────────────────────────────────────────────
	//
	migCtx, cancelMig := context.WithTimeout(context.Background(), 30*time.Second)
	err = server.Migrate(migCtx, db, logOut)
	cancelMig()
	if err != nil {
		logOut.Fatalw("apply migrations", "err", err)
	}

	//
	// ── 5.  API document ────────────────────────────────────────────────
	//
	doc := crud.NewDoc("Botfleet API", version)
	for _, c := range component.All() {
		c.Document(doc, cfg.API.Prefix+c.Prefix())
	}
	if err := doc.Validate(context.Background()); err != nil {
		logOut.Fatalw("openapi document invalid", "err", err)
	}

	//
	// ── 6.  Serve with graceful shutdown ────────────────────────────────
	//
	env := &component.Env{DB: db, Log: logOut.Desugar(), Version: version}
	srv := server.New(cfg.HTTP.ListenAddr, server.Build(cfg, env, doc))

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logOut.Infow("shutdown requested")
		shutCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil {
		logOut.Fatalw("server exited", "err", err)
	}
	logOut.Infow("botfleet stopped")
}
