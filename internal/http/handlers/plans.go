package handlers

import (
	"errors"
	"net/http"

	"restoplan/internal/domain"
)

func (a *App) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := a.Plans.List(r.Context())
	if err != nil {
		a.log(r).Error().Err(err).Msg("list plans failed")
		a.error(w, http.StatusInternalServerError, "internal", "Plans not found")
		return
	}
	a.json(w, http.StatusOK, plans)
}

// UpdatePlan merges the supplied fields over the stored plan and writes all
// of them back. Absent fields keep their value.
func (a *App) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "Invalid plan id")
		return
	}
	var patch domain.PlanPatch
	if err := decode(w, r, &patch); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "Invalid payload")
		return
	}
	if err := patch.Validate(); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "Invalid payload")
		return
	}

	current, err := a.Plans.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "Plan not found")
			return
		}
		a.log(r).Error().Err(err).Int64("plan_id", id).Msg("load plan failed")
		a.error(w, http.StatusInternalServerError, "internal", "Plan update failed")
		return
	}

	merged := patch.Apply(*current)
	if err := a.Plans.Update(r.Context(), merged); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "Plan not found")
			return
		}
		a.log(r).Error().Err(err).Int64("plan_id", id).Msg("update plan failed")
		a.error(w, http.StatusInternalServerError, "internal", "Plan update failed")
		return
	}
	a.json(w, http.StatusOK, merged)
}
