// internal/config/loader_test.go

package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
http:
  listen_addr: ":8080"
  request_id_header: "X-Request-ID"
api:
  prefix: "/api/v1"
  docs_enabled: true
cors:
  allow_origins: ""
database:
  dsn: "postgres://botfleet:%s@localhost:5432/botfleet?sslmode=disable"
  password: "hunter2"
  max_open_conns: 15
  max_idle_conns: 5
log:
  level: "info"
vault:
  enabled: false
`

// writeRoot lays out a throwaway config tree and points the loader at it.
func writeRoot(t *testing.T, yamlBody string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "conf"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(yamlBody), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BOTFLEET_ROOT", root)
	return root
}

func TestLoad_FromYAML(t *testing.T) {
	root := writeRoot(t, validYAML)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.ListenAddr != ":8080" || cfg.HTTP.RequestIDHeader != "X-Request-ID" {
		t.Errorf("http = %+v", cfg.HTTP)
	}
	if cfg.API.Prefix != "/api/v1" || !cfg.API.DocsEnabled {
		t.Errorf("api = %+v", cfg.API)
	}
	if cfg.Database.MaxOpen != 15 || cfg.Database.MaxIdle != 5 {
		t.Errorf("database pool = %+v", cfg.Database)
	}
	if cfg.Paths.Root != root {
		t.Errorf("root = %q, want %q", cfg.Paths.Root, root)
	}
	if Get() != cfg {
		t.Error("Get() does not return the cached pointer")
	}

	if err := Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if Get() == cfg {
		t.Error("Reload did not swap the cached pointer")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	writeRoot(t, validYAML)
	t.Setenv("BOTFLEET_HTTP__LISTEN_ADDR", ":9999")
	t.Setenv("BOTFLEET_DATABASE__MAX_OPEN_CONNS", "25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.ListenAddr != ":9999" {
		t.Errorf("listen_addr = %q, want env override", cfg.HTTP.ListenAddr)
	}
	if cfg.Database.MaxOpen != 25 {
		t.Errorf("max_open_conns = %d, want 25", cfg.Database.MaxOpen)
	}
	// Untouched keys keep their YAML values.
	if cfg.API.Prefix != "/api/v1" {
		t.Errorf("prefix = %q", cfg.API.Prefix)
	}
}

func TestLoad_DotenvLayer(t *testing.T) {
	root := writeRoot(t, validYAML)
	dotenv := []byte("BOTFLEET_LOG__LEVEL=debug\n")
	if err := os.WriteFile(filepath.Join(root, "conf", ".env"), dotenv, 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv exports into the process environment and never cleans up.
	t.Cleanup(func() { os.Unsetenv("BOTFLEET_LOG__LEVEL") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want debug from .env", cfg.Log.Level)
	}
}

func TestLoad_ValidationFailures(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"bad listen addr", `
http:
  listen_addr: "no-port-here"
  request_id_header: "X-Request-ID"
api:
  prefix: "/api/v1"
database:
  dsn: "postgres://x"
`},
		{"missing dsn", `
http:
  listen_addr: ":8080"
  request_id_header: "X-Request-ID"
api:
  prefix: "/api/v1"
`},
		{"prefix without slash", `
http:
  listen_addr: ":8080"
  request_id_header: "X-Request-ID"
api:
  prefix: "api/v1"
database:
  dsn: "postgres://x"
`},
		{"unknown log level", `
http:
  listen_addr: ":8080"
  request_id_header: "X-Request-ID"
api:
  prefix: "/api/v1"
database:
  dsn: "postgres://x"
log:
  level: "chatty"
`},
	}
	for _, c := range cases {
		writeRoot(t, c.yaml)
		if _, err := Load(); err == nil {
			t.Errorf("%s: Load accepted an invalid tree", c.name)
		}
	}
}

func TestCORSOrigins(t *testing.T) {
	cases := []struct {
		csv  string
		want []string
	}{
		{"", nil},
		{"https://a.test", []string{"https://a.test"}},
		{"https://a.test, https://b.test", []string{"https://a.test", "https://b.test"}},
		{" , https://a.test, ", []string{"https://a.test"}},
		{"*", []string{"*"}},
	}
	for _, c := range cases {
		got := CORS{AllowOrigins: c.csv}.Origins()
		if len(got) != len(c.want) {
			t.Errorf("%q: origins = %#v, want %#v", c.csv, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("%q: origins[%d] = %q, want %q", c.csv, i, got[i], c.want[i])
			}
		}
	}
}

func TestBuildDSN(t *testing.T) {
	spliced := Database{
		DSN:      "postgres://bot:%s@db:5432/app",
		Password: "s3cret",
	}
	if got := spliced.BuildDSN(); got != "postgres://bot:s3cret@db:5432/app" {
		t.Errorf("spliced dsn = %q", got)
	}

	plain := Database{DSN: "postgres://bot:inline@db:5432/app", Password: "ignored"}
	if got := plain.BuildDSN(); got != plain.DSN {
		t.Errorf("plain dsn = %q", got)
	}
}
