package handlers

import (
	"errors"
	"net/http"

	"restoplan/internal/domain"
)

func (a *App) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.Users.List(r.Context())
	if err != nil {
		a.log(r).Error().Err(err).Msg("list users failed")
		a.error(w, http.StatusInternalServerError, "internal", "Users not found")
		return
	}
	a.json(w, http.StatusOK, users)
}

func (a *App) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "Invalid user id")
		return
	}
	user, err := a.Users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "User not found")
			return
		}
		a.log(r).Error().Err(err).Int64("user_id", id).Msg("get user failed")
		a.error(w, http.StatusInternalServerError, "internal", "User not found")
		return
	}
	a.json(w, http.StatusOK, user)
}

// UpdateUser sets isActive and annualPayment. A flag left out of the body
// keeps its stored value; at least one must be present.
func (a *App) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "Invalid user id")
		return
	}
	var patch domain.UserStatusPatch
	if err := decode(w, r, &patch); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "Invalid payload")
		return
	}
	if err := patch.Validate(); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "isActive or annualPayment is required")
		return
	}

	current, err := a.Users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "User not found")
			return
		}
		a.log(r).Error().Err(err).Int64("user_id", id).Msg("load user failed")
		a.error(w, http.StatusInternalServerError, "internal", "User activation failed")
		return
	}

	status := patch.Apply(*current)
	if err := a.Users.UpdateStatus(r.Context(), status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "User not found")
			return
		}
		a.log(r).Error().Err(err).Int64("user_id", id).Msg("update user status failed")
		a.error(w, http.StatusInternalServerError, "internal", "User activation failed")
		return
	}
	a.json(w, http.StatusOK, status)
}
