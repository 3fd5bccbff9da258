// components/bots/bots.go
//
// Bots Component – the fleet registry resource.
//
// Context
//   A bot is one automated worker running on a rig.  Rigs report their
//   bots here; operators list, inspect, flip kill switches, and prune dead
//   entries through the generated endpoints.  Everything below is
//   declarative: the model struct, the filter descriptors, and the body
//   schemas feed the crud factory, which produces the five handlers and
//   the documentation.  No per-endpoint logic lives in this package.
//
//------------------------------------------------------------------------------

package bots

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/botfleet/internal/component"
	"github.com/yanizio/botfleet/internal/crud"
)

// compile-time assertion
var _ component.Component = (*Comp)(nil)

func init() { component.Register(&Comp{}) }

/*──────────────────────────── model ───────────────────────────────────────*/

// Bot mirrors the bots table.  Nullable columns map to pointers so a JSON
// null round-trips faithfully.
type Bot struct {
	ID           string     `db:"id"             json:"id"`
	RigID        string     `db:"rig_id"         json:"rig_id"`
	LastRunAt    *time.Time `db:"last_run_at"    json:"last_run_at"`
	KillSwitch   bool       `db:"kill_switch"    json:"kill_switch"`
	LastRunLog   *string    `db:"last_run_log"   json:"last_run_log"`
	CreateAt     time.Time  `db:"create_at"      json:"create_at"`
	LastUpdateAt time.Time  `db:"last_update_at" json:"last_update_at"`
}

var botColumns = []string{
	"id", "rig_id", "last_run_at", "kill_switch", "last_run_log",
	"create_at", "last_update_at",
}

/*──────────────────────────── declarative wiring ──────────────────────────*/

// botFilters maps query parameters to predicates.  log_search is the
// external name for the substring filter over last_run_log; the three
// timestamp columns each take an “_after”/“_before” pair.
var botFilters = []crud.FilterField{
	{Column: "rig_id", Kind: crud.FilterExact, Type: crud.TypeString},
	{Column: "kill_switch", Kind: crud.FilterExact, Type: crud.TypeBool},
	{Column: "last_run_log", Kind: crud.FilterSubstring, Param: "log_search"},
	{Column: "create_at", Kind: crud.FilterDateRange},
	{Column: "last_update_at", Kind: crud.FilterDateRange},
	{Column: "last_run_at", Kind: crud.FilterDateRange},
}

// Editable fields only; id and the two bookkeeping timestamps are absent
// on purpose, which makes them inert in request bodies.
var (
	botCreate = crud.Def{
		{Name: "rig_id", Type: crud.TypeString, Required: true, Rule: "max=128"},
		{Name: "kill_switch", Type: crud.TypeBool},
		{Name: "last_run_at", Type: crud.TypeTime, Nullable: true},
		{Name: "last_run_log", Type: crud.TypeString, Nullable: true},
	}
	botUpdate = crud.Def{
		{Name: "rig_id", Type: crud.TypeString, Rule: "max=128"},
		{Name: "kill_switch", Type: crud.TypeBool},
		{Name: "last_run_at", Type: crud.TypeTime, Nullable: true},
		{Name: "last_run_log", Type: crud.TypeString, Nullable: true},
	}
	botResponse = crud.Def{
		{Name: "id", Type: crud.TypeString, Required: true},
		{Name: "rig_id", Type: crud.TypeString, Required: true},
		{Name: "last_run_at", Type: crud.TypeTime, Nullable: true},
		{Name: "kill_switch", Type: crud.TypeBool, Required: true},
		{Name: "last_run_log", Type: crud.TypeString, Nullable: true},
		{Name: "create_at", Type: crud.TypeTime, Required: true},
		{Name: "last_update_at", Type: crud.TypeTime, Required: true},
	}
)

// Resource is the full factory configuration.  Exported so tests exercise
// the exact wiring the server mounts.
var Resource = crud.Resource[Bot]{
	Name:     "Bot",
	Plural:   "bots",
	Table:    "bots",
	Columns:  botColumns,
	Tags:     []string{"bots"},
	Filters:  botFilters,
	Response: botResponse,
	Create:   botCreate,
	Update:   botUpdate,
}

/*──────────────────────────── component ───────────────────────────────────*/

// Comp implements component.Component; all state lives in the database.
type Comp struct{}

func (c *Comp) Name() string   { return "bots" }
func (c *Comp) Prefix() string { return "/bots" }

func (c *Comp) Mount(env *component.Env) chi.Router {
	r := chi.NewRouter()
	cenv := crud.Env{DB: env.DB, Log: env.Log}
	crud.AttachList(r, cenv, Resource)
	crud.AttachGet(r, cenv, Resource)
	crud.AttachCreate(r, cenv, Resource)
	crud.AttachUpdate(r, cenv, Resource)
	crud.AttachDelete(r, cenv, Resource)
	return r
}

func (c *Comp) Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS bots (
			id             VARCHAR(32)  PRIMARY KEY,
			rig_id         VARCHAR(128) NOT NULL,
			last_run_at    TIMESTAMPTZ,
			kill_switch    BOOLEAN      NOT NULL DEFAULT FALSE,
			last_run_log   TEXT         DEFAULT '',
			create_at      TIMESTAMPTZ  NOT NULL,
			last_update_at TIMESTAMPTZ  NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bots_rig_id ON bots (rig_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bots_create_at ON bots (create_at DESC, id DESC)`,
	}
}

func (c *Comp) Document(doc *crud.Doc, mount string) {
	doc.AddCRUD(Resource.DocInfo(mount))
}
