// internal/server/migrate.go
//
// Boot-time schema migrations.
//
// Each component owns its DDL and returns it from Migrations() as a list
// of idempotent statements (CREATE TABLE IF NOT EXISTS and friends).
// They run once at startup, in component-name order, before the listener
// opens.  There is no down path; schema rollback is an operational task.

package server

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/botfleet/internal/component"
)

// Migrate applies every registered component's DDL.  Statements run
// outside a transaction because Postgres auto-commits most DDL anyway.
func Migrate(ctx context.Context, db *sqlx.DB, log *zap.SugaredLogger) error {
	for _, c := range component.All() {
		stmts := c.Migrations()
		for i, stmt := range stmts {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("component %s migration %d: %w", c.Name(), i, err)
			}
		}
		if len(stmts) > 0 {
			log.Infow("migrations applied",
				"component", c.Name(), "statements", len(stmts))
		}
	}
	return nil
}
