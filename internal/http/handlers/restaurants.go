package handlers

import "net/http"

func (a *App) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := a.Restaurants.ListWithRatings(r.Context())
	if err != nil {
		a.log(r).Error().Err(err).Msg("list restaurants failed")
		a.error(w, http.StatusInternalServerError, "internal", "Restaurants not found")
		return
	}
	a.json(w, http.StatusOK, restaurants)
}
