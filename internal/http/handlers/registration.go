package handlers

import (
	"errors"
	"net/http"

	"restoplan/internal/domain"
	"restoplan/internal/infra/geoip"
	"restoplan/internal/infra/password"
	"restoplan/internal/middleware"
)

// Register creates a user with role owner and their restaurants in one
// transaction.
func (a *App) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.Registration
	if err := decode(w, r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "Invalid payload")
		return
	}
	req.Normalize()
	if reason := req.Validate(); reason != "" {
		a.error(w, http.StatusBadRequest, "bad_request", reason)
		return
	}

	callerCountry := middleware.CountryFromContext(r.Context())
	for i := range req.Restaurants {
		d := &req.Restaurants[i]
		if d.CountryCode == "" {
			d.CountryCode = callerCountry
		}
		if d.CountryCode == "" {
			continue
		}
		code, err := geoip.Canonical(d.CountryCode)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "Invalid countryCode")
			return
		}
		d.CountryCode = code
	}

	hash, err := a.Hasher.Hash(req.Password)
	if errors.Is(err, password.ErrTooLong) {
		a.error(w, http.StatusBadRequest, "bad_request", "password must be at most 72 bytes")
		return
	}
	if err != nil {
		a.log(r).Error().Err(err).Msg("hash password failed")
		a.error(w, http.StatusInternalServerError, "internal", "Registration failed")
		return
	}

	res, err := a.Registrations.Register(r.Context(), domain.NewUser{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		PasswordHash:  hash,
		RoleID:        domain.DefaultRoleID,
		PlanID:        req.PlanID,
		IsActive:      true,
		AnnualPayment: req.AnnualPayment,
	}, req.Restaurants)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			a.error(w, http.StatusConflict, "conflict", "User already exists")
		case errors.Is(err, domain.ErrInvalidReference):
			a.error(w, http.StatusBadRequest, "bad_request", "Unknown plan")
		default:
			a.log(r).Error().Err(err).Msg("registration failed")
			a.error(w, http.StatusInternalServerError, "internal", "Registration failed")
		}
		return
	}

	a.log(r).Info().
		Int64("user_id", res.UserID).
		Int("restaurants", len(res.RestaurantIDs)).
		Msg("registration completed")
	a.json(w, http.StatusCreated, map[string]string{"message": "Registration successful"})
}
