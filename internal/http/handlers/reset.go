package handlers

import (
	"context"
	"net/http"

	"restoplan/internal/seed"
)

// ResetDB rebuilds the schema from the seed script. Ordinary requests are
// held off by the maintenance gate until it finishes.
func (a *App) ResetDB(w http.ResponseWriter, r *http.Request) {
	err := a.Gate.Exclusive(r.Context(), func(ctx context.Context) error {
		script, err := seed.Load(a.Config.SeedScriptPath)
		if err != nil {
			return err
		}
		return a.Maintenance.Reset(ctx, script)
	})
	if err != nil {
		a.log(r).Error().Err(err).Msg("database reset failed")
		a.error(w, http.StatusInternalServerError, "internal", "Database reset failed")
		return
	}
	a.log(r).Warn().Msg("database reset completed")
	a.json(w, http.StatusOK, map[string]string{"message": "The database reset was successful"})
}
