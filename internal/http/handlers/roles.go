package handlers

import "net/http"

func (a *App) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := a.Roles.List(r.Context())
	if err != nil {
		a.log(r).Error().Err(err).Msg("list roles failed")
		a.error(w, http.StatusInternalServerError, "internal", "Roles not found")
		return
	}
	a.json(w, http.StatusOK, roles)
}
