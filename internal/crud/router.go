// internal/crud/router.go
//
// Botfleet – CRUD subsystem: generic endpoint factory.
//
// Context
//   Given a model type, a table, filter descriptors, and body schemas, the
//   five Attach functions wire list, get, create, update, and delete
//   handlers onto a chi router.  Resources get consistent pagination,
//   deterministic ordering, wildcard-safe search, and one error vocabulary
//   without writing a single per-resource handler.
//
// Workflow
//   •  Attach{List,Get,Create,Update,Delete} each register one operation.
//      A resource package calls the five it wants and mounts the router
//      under its prefix; operation identifiers embed the resource name, so
//      several resources built from this factory never collide in the API
//      document.
//   •  Dependencies arrive in Env, constructed once at process start and
//      captured by the handler closures.  There is no package-level pool.
//   •  List applies the same restriction to a COUNT and a page fetch, then
//      orders by the configured sort columns.  The default sort is
//      “create_at DESC, id DESC”; the id tiebreaker keeps ordering
//      repeatable when several records share a creation timestamp.
//   •  Get, update, and delete validate the identifier format before any
//      lookup, with one shared check, so the three endpoints accept and
//      reject exactly the same strings.
//
// Notes
//   •  Single-statement operations run without an explicit transaction; a
//      failed INSERT leaves nothing open, so the pooled connection stays
//      usable after a conflict.
//   •  Page beyond the last page is a 200 with empty items, never an error.
//
//------------------------------------------------------------------------------

package crud

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/botfleet/internal/metrics"
	"github.com/yanizio/botfleet/internal/requestinfo"
)

// psql builds every statement with Postgres placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Auto-managed columns shared by every resource.
const (
	colID           = "id"
	colCreateAt     = "create_at"
	colLastUpdateAt = "last_update_at"
)

// maxBodyBytes caps create/update payloads.
const maxBodyBytes = 1 << 20

// Env carries the per-process dependencies a handler needs.  The zero Log
// falls back to the global logger.
type Env struct {
	DB  *sqlx.DB
	Log *zap.Logger
}

func (e Env) logger() *zap.Logger {
	if e.Log != nil {
		return e.Log
	}
	return zap.L()
}

func (e Env) logError(ctx context.Context, resource, msg string, err error) {
	e.logger().Error(msg,
		zap.String("resource", resource),
		zap.String("request_id", requestinfo.RequestID(ctx)),
		zap.Error(err),
	)
}

// SortColumn is one ORDER BY term.
type SortColumn struct {
	Column string
	Desc   bool
}

// defaultSort guarantees deterministic ordering out of the box: creation
// time, newest first, with the primary key breaking timestamp ties.
var defaultSort = []SortColumn{
	{Column: colCreateAt, Desc: true},
	{Column: colID, Desc: true},
}

// Resource configures the factory for one entity type.  T is the model
// struct; its db tags map the select columns, its json tags shape every
// response body.
type Resource[T any] struct {
	Name    string   // Display name, e.g. “Bot”.  Required.
	Plural  string   // Collection label for operation ids.  Empty derives “<name>s”.
	Table   string   // SQL table.  Required.
	Columns []string // Select list, also the RETURNING list.  Required.
	Tags    []string // Documentation tags.

	Filters  []FilterField
	Response Def // Documentation only; serialization follows T's json tags.
	Create   Def
	Update   Def

	Sort      []SortColumn   // Empty means defaultSort.
	IDPattern *regexp.Regexp // Empty means the 32-character default.
}

// withDefaults validates wiring and fills the derived configuration.
// Mistakes here are programming errors, so it panics at boot.
func (res Resource[T]) withDefaults() Resource[T] {
	if res.Name == "" || res.Table == "" || len(res.Columns) == 0 {
		panic("crud: resource needs Name, Table, and Columns")
	}
	if err := ValidateFields(res.Filters); err != nil {
		panic("crud: resource " + res.Name + ": " + err.Error())
	}
	if res.Plural == "" {
		res.Plural = strings.ToLower(res.Name) + "s"
	}
	if len(res.Sort) == 0 {
		res.Sort = defaultSort
	}
	if res.IDPattern == nil {
		res.IDPattern = idPattern
	}
	return res
}

// operationID embeds the lower-cased resource name so documents covering
// several resources never produce ambiguous identifiers.
func (res Resource[T]) operationID(op string) string {
	if op == "list" {
		return "list_" + res.Plural
	}
	return op + "_" + strings.ToLower(res.Name)
}

func (res Resource[T]) columnList() string {
	return strings.Join(res.Columns, ", ")
}

func (res Resource[T]) orderBy() []string {
	terms := make([]string, len(res.Sort))
	for i, s := range res.Sort {
		dir := " ASC"
		if s.Desc {
			dir = " DESC"
		}
		terms[i] = s.Column + dir
	}
	return terms
}

/*──────────────────────────── attach functions ───────────────────────────*/

// AttachList registers GET / returning the paginated, filtered collection.
func AttachList[T any](r chi.Router, env Env, res Resource[T]) {
	res = res.withDefaults()
	specs := ParamSpecs(res.Filters)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		params, errs := DecodeListParams(req.URL.Query(), specs)
		if len(errs) > 0 {
			respondValidation(w, errs)
			return
		}
		ctx := req.Context()

		var total int64
		countSQL, countArgs, err := Restrict(
			psql.Select("COUNT(*)").From(res.Table), res.Filters, params.Filters,
		).ToSql()
		if err == nil {
			err = env.DB.GetContext(ctx, &total, countSQL, countArgs...)
		}
		observeQuery("count", err)
		if err != nil {
			env.logError(ctx, res.Name, "count query failed", err)
			respondInternal(w)
			return
		}

		pageSQL, pageArgs, err := Restrict(
			psql.Select(res.Columns...).From(res.Table), res.Filters, params.Filters,
		).
			OrderBy(res.orderBy()...).
			Offset(uint64(params.Page-1) * uint64(params.PerPage)).
			Limit(uint64(params.PerPage)).
			ToSql()
		var items []T
		if err == nil {
			err = env.DB.SelectContext(ctx, &items, pageSQL, pageArgs...)
		}
		observeQuery("select", err)
		if err != nil {
			env.logError(ctx, res.Name, "page query failed", err)
			respondInternal(w)
			return
		}

		respond(w, http.StatusOK, NewPage(items, total, params.Page, params.PerPage))
	})
}

// AttachGet registers GET /{id} returning one record.
func AttachGet[T any](r chi.Router, env Env, res Resource[T]) {
	res = res.withDefaults()

	r.Get("/{id}", func(w http.ResponseWriter, req *http.Request) {
		id, ok := requireID(w, req, res.IDPattern)
		if !ok {
			return
		}
		ctx := req.Context()

		getSQL, args, err := psql.Select(res.Columns...).From(res.Table).
			Where(squirrel.Eq{colID: id}).ToSql()
		var item T
		if err == nil {
			err = env.DB.GetContext(ctx, &item, getSQL, args...)
		}
		observeQuery("get", err)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			respondNotFound(w, res.Name, id)
		case err != nil:
			env.logError(ctx, res.Name, "get query failed", err)
			respondInternal(w)
		default:
			respond(w, http.StatusOK, item)
		}
	})
}

// AttachCreate registers POST / inserting one record.  The id and both
// timestamps are populated here; body keys naming them are inert because
// the create schema never declares them.
func AttachCreate[T any](r chi.Router, env Env, res Resource[T]) {
	res = res.withDefaults()

	r.Post("/", func(w http.ResponseWriter, req *http.Request) {
		body, ok := readBody(w, req)
		if !ok {
			return
		}
		clean, errs := res.Create.ValidateCreate(body)
		if len(errs) > 0 {
			respondValidation(w, errs)
			return
		}
		ctx := req.Context()

		now := time.Now().UTC()
		cols := []string{colID, colCreateAt, colLastUpdateAt}
		vals := []any{NewID(), now, now}
		for _, f := range res.Create {
			if v, present := clean[f.Name]; present {
				cols = append(cols, f.Name)
				vals = append(vals, v)
			}
		}

		insSQL, args, err := psql.Insert(res.Table).
			Columns(cols...).
			Values(vals...).
			Suffix("RETURNING " + res.columnList()).
			ToSql()
		var item T
		if err == nil {
			err = env.DB.QueryRowxContext(ctx, insSQL, args...).StructScan(&item)
		}
		observeQuery("insert", err)
		if err != nil {
			if detail, conflict := conflictDetail(err); conflict {
				// The failed statement left nothing open; the pooled
				// connection serves the next request untouched.
				respondConflict(w, detail)
				return
			}
			env.logError(ctx, res.Name, "insert failed", err)
			respondInternal(w)
			return
		}
		respond(w, http.StatusCreated, item)
	})
}

// AttachUpdate registers PUT /{id} applying a partial update.  Every write
// advances last_update_at, including an empty body: a no-op on data is
// still bookkeeping.
func AttachUpdate[T any](r chi.Router, env Env, res Resource[T]) {
	res = res.withDefaults()

	r.Put("/{id}", func(w http.ResponseWriter, req *http.Request) {
		id, ok := requireID(w, req, res.IDPattern)
		if !ok {
			return
		}
		body, ok := readBody(w, req)
		if !ok {
			return
		}
		clean, errs := res.Update.ValidateUpdate(body)
		if len(errs) > 0 {
			respondValidation(w, errs)
			return
		}
		ctx := req.Context()

		upd := psql.Update(res.Table).Set(colLastUpdateAt, time.Now().UTC())
		for _, f := range res.Update {
			if v, present := clean[f.Name]; present {
				upd = upd.Set(f.Name, v) // nil stores SQL NULL
			}
		}
		updSQL, args, err := upd.
			Where(squirrel.Eq{colID: id}).
			Suffix("RETURNING " + res.columnList()).
			ToSql()
		var item T
		if err == nil {
			err = env.DB.QueryRowxContext(ctx, updSQL, args...).StructScan(&item)
		}
		observeQuery("update", err)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			respondNotFound(w, res.Name, id)
		case err != nil:
			env.logError(ctx, res.Name, "update failed", err)
			respondInternal(w)
		default:
			respond(w, http.StatusOK, item)
		}
	})
}

// AttachDelete registers DELETE /{id}.  Hard delete: a second call for the
// same id reports NotFound, the record being gone either way.
func AttachDelete[T any](r chi.Router, env Env, res Resource[T]) {
	res = res.withDefaults()

	r.Delete("/{id}", func(w http.ResponseWriter, req *http.Request) {
		id, ok := requireID(w, req, res.IDPattern)
		if !ok {
			return
		}
		ctx := req.Context()

		delSQL, args, err := psql.Delete(res.Table).
			Where(squirrel.Eq{colID: id}).ToSql()
		var affected int64
		if err == nil {
			var result sql.Result
			result, err = env.DB.ExecContext(ctx, delSQL, args...)
			if err == nil {
				affected, err = result.RowsAffected()
			}
		}
		observeQuery("delete", err)
		switch {
		case err != nil:
			env.logError(ctx, res.Name, "delete failed", err)
			respondInternal(w)
		case affected == 0:
			respondNotFound(w, res.Name, id)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	})
}

/*──────────────────────────── request helpers ────────────────────────────*/

// requireID extracts and format-checks the id path parameter.  The check
// runs before any lookup, and the same helper serves get, update, and
// delete, so the three reject identical strings identically.
func requireID(w http.ResponseWriter, req *http.Request, pattern *regexp.Regexp) (string, bool) {
	id := chi.URLParam(req, "id")
	if !pattern.MatchString(id) {
		respondValidation(w, []FieldError{{Field: "id", Message: "invalid identifier format"}})
		return "", false
	}
	return id, true
}

// readBody drains the request body under the size cap.
func readBody(w http.ResponseWriter, req *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxBodyBytes))
	if err != nil {
		respondValidation(w, []FieldError{{Field: "body", Message: "unreadable or oversized request body"}})
		return nil, false
	}
	return body, true
}

// observeQuery feeds the db_queries_total counter.  A no-rows result is a
// domain miss, not a failure.
func observeQuery(op string, err error) {
	outcome := "ok"
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		outcome = "error"
	}
	metrics.DBQueriesTotal.WithLabelValues(op, outcome).Inc()
}
