package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"restoplan/internal/infra"
	"restoplan/internal/seed"
)

// ResetTables lists the tables dropped before the seed replay, in drop order.
var ResetTables = []string{"reviews", "restaurants", "plans", "roles", "user_restaurants", "users"}

// MaintenanceRepositoryPG rebuilds the schema from a seed script.
type MaintenanceRepositoryPG struct {
	sql infra.TxExecutor
}

func NewMaintenanceRepository(sql infra.TxExecutor) *MaintenanceRepositoryPG {
	return &MaintenanceRepositoryPG{sql: sql}
}

// Reset drops the known tables and replays script statement by statement.
// DDL is transactional in PostgreSQL, so a failure leaves the previous schema
// and data in place.
func (r *MaintenanceRepositoryPG) Reset(ctx context.Context, script string) error {
	stmts := seed.Split(script)
	if len(stmts) == 0 {
		return errors.New("reset: seed script has no statements")
	}
	return r.sql.InTx(ctx, func(tx infra.SQLExecutor) error {
		for _, table := range ResetTables {
			if err := tx.ExecRaw(ctx, dropTableStatement(table)); err != nil {
				return fmt.Errorf("drop %s: %w", table, err)
			}
		}
		for i, stmt := range stmts {
			if err := tx.ExecRaw(ctx, stmt); err != nil {
				return fmt.Errorf("seed statement %d: %w", i+1, err)
			}
		}
		return nil
	})
}

func dropTableStatement(table string) string {
	return "DROP TABLE IF EXISTS " + pq.QuoteIdentifier(table) + " CASCADE"
}
