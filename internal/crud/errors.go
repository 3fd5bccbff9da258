// internal/crud/errors.go
//
// Botfleet – CRUD subsystem: error envelopes and response writers.
//
// The taxonomy is small and fixed: 422 carries field-level detail, 404
// carries the resource display name and the requested id in one shape shared
// by get, update, and delete, and 409 surfaces the storage constraint text.
// Unexpected failures become an opaque 500; the cause is logged upstream,
// never leaked to the client.

package crud

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

// FieldError names one offending input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// notFoundBody is the shared 404 envelope.
type notFoundBody struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// detailBody wraps 409 and 500 payloads.
type detailBody struct {
	Detail string `json:"detail"`
}

// validationBody wraps 422 payloads.
type validationBody struct {
	Detail []FieldError `json:"detail"`
}

// pgIntegrityClass is the SQLSTATE class covering unique, foreign-key,
// not-null, and check violations.
const pgIntegrityClass = "23"

// conflictDetail reports whether err is a storage integrity violation and,
// when it is, returns the driver's constraint text for the 409 envelope.
func conflictDetail(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}
	if len(pgErr.Code) < 2 || pgErr.Code[:2] != pgIntegrityClass {
		return "", false
	}
	detail := pgErr.Message
	if pgErr.Detail != "" {
		detail += ": " + pgErr.Detail
	}
	return detail, true
}

func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func respondValidation(w http.ResponseWriter, errs []FieldError) {
	respond(w, http.StatusUnprocessableEntity, validationBody{Detail: errs})
}

func respondNotFound(w http.ResponseWriter, name, id string) {
	respond(w, http.StatusNotFound, notFoundBody{Message: name + " not found", ID: id})
}

func respondConflict(w http.ResponseWriter, detail string) {
	respond(w, http.StatusConflict, detailBody{Detail: detail})
}

func respondInternal(w http.ResponseWriter) {
	respond(w, http.StatusInternalServerError, detailBody{Detail: "internal server error"})
}
