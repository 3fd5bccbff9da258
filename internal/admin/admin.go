// internal/admin/admin.go
//
// Embedded admin dashboard.
//
// Context
// -------
// A dependency-free static bundle (HTML, CSS, and one JS file) compiled
// into the binary with go:embed.  The dashboard drives the JSON API from
// the browser: it lists resources with the filter panel, sorts and hides
// columns client-side, and creates, edits, and deletes records.  Field
// lists come from the served OpenAPI document, so new resources show up
// without touching these files.
//
// All script lives in app.js; the security middleware's self-only CSP
// forbids inline handlers.

package admin

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var content embed.FS

// Handler serves the dashboard files.  Callers strip the mount prefix,
// so the file server sees root-relative paths and "/" resolves to
// index.html.
func Handler() http.Handler {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
