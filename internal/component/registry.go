// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  The server mounts every
// component's router under the API prefix, applies its migrations at boot,
// and asks it to contribute to the API document.  Dependencies are handed
// over explicitly at mount time; components hold no package-level pools.

package component

import (
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/botfleet/internal/crud"
)

// Env carries the process-wide dependencies a component receives at mount
// time.  It is constructed once in main and never mutated afterward.
type Env struct {
	DB      *sqlx.DB
	Log     *zap.Logger
	Version string // Build version, for components that report it.
}

// Component contract.
//
// Migrations() may return nil if the component has no schema.  Document()
// may be a no-op for components without a stable API surface.  Prefix() is
// the mount path under the API prefix, e.g. “/bots”.
type Component interface {
	Name() string
	Prefix() string
	Mount(env *Env) chi.Router
	Migrations() []string
	Document(doc *crud.Doc, mount string)
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component sorted by name, so migrations and
// mounts run in a stable order across restarts.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
