// internal/config/model.go
//
// Typed configuration model for Botfleet.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `conf/.env`                        – dotenv values,
//   • `conf/global.yaml`                          – primary static file,
//   • `BOTFLEET_`-prefixed environment overrides  – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *before* unmarshalling, so the model never
// stores Vault URIs—only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import (
	"fmt"
	"strings"
)

//
// HTTP section
//

// HTTP holds server tunables.
type HTTP struct {
	ListenAddr      string `koanf:"listen_addr"       validate:"required,hostname_port"`
	RequestIDHeader string `koanf:"request_id_header" validate:"required"`
}

//
// API section
//

// API shapes the external surface: where the versioned prefix mounts and
// whether the generated document is served.
type API struct {
	Prefix      string `koanf:"prefix" validate:"required,startswith=/"`
	DocsEnabled bool   `koanf:"docs_enabled"`
}

//
// CORS section
//

// CORS carries the allow-list for browser callers (the admin dashboard in
// practice).  Origins is a comma-separated string so a single environment
// variable can override it.
type CORS struct {
	AllowOrigins string `koanf:"allow_origins"`
}

// Origins splits the CSV allow-list, trimming blanks.
func (c CORS) Origins() []string {
	if c.AllowOrigins == "" {
		return nil
	}
	parts := strings.Split(c.AllowOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

//
// Database section
//

// Database holds the DSN template and its secret.
//
// The *template* (`DSN`) is kept in YAML so operators can tweak host,
// port, or flags without touching Vault.  The *secret* portion
// (`Password`) may live in Vault and is injected at runtime, keeping
// credentials out of flat files and git history.
type Database struct {
	DSN      string `koanf:"dsn" validate:"required"`
	Password string `koanf:"password"`
	MaxOpen  int    `koanf:"max_open_conns"`
	MaxIdle  int    `koanf:"max_idle_conns"`
}

// BuildDSN splices the password into the template when the template asks
// for it with a single %s verb; otherwise the template is used as-is.
func (d Database) BuildDSN() string {
	if strings.Contains(d.DSN, "%s") {
		return fmt.Sprintf(d.DSN, d.Password)
	}
	return d.DSN
}

//
// Log section
//

// Log selects verbosity and the file sink directory.
type Log struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	Dir   string `koanf:"dir"`
}

//
// Vault section
//

// Vault toggles secret resolution.  Address and token come from the
// standard VAULT_ADDR and VAULT_TOKEN environment variables, which the SDK
// reads on its own.
type Vault struct {
	Enabled bool `koanf:"enabled"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or BOTFLEET_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // BOTFLEET_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	API      API      `koanf:"api"`
	CORS     CORS     `koanf:"cors"`
	Database Database `koanf:"database"`
	Log      Log      `koanf:"log"`
	Vault    Vault    `koanf:"vault"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
