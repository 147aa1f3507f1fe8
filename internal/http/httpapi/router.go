package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"restoplan/internal/http/handlers"
	"restoplan/internal/middleware"
)

// NewRouter mounts the API under cfg.APIPrefix. Every route except the reset
// runs behind the shared side of the maintenance gate. The reset route only
// exists when an operator token is configured.
func NewRouter(app *handlers.App, lookup middleware.CountryLookup) http.Handler {
	cfg := app.Config
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	// RemoteAddr keys the registration limiter, so forwarded headers only
	// rewrite it when a proxy in front of us sets them.
	if cfg.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(
		middleware.Logger(app.Logger),
		chimw.Recoverer,
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not found","code":"not_found"}`))
	})

	api := func(r chi.Router) {
		r.Get("/healthz", app.Health)
		r.Get("/openapi.json", app.OpenAPIJSON)
		r.Get("/docs", app.OpenAPIDocs)

		r.Group(func(r chi.Router) {
			r.Use(app.Gate.Shared)

			r.Get("/plans", app.ListPlans)
			r.Put("/plans/{id}", app.UpdatePlan)

			r.Get("/roles", app.ListRoles)

			r.Get("/reviews", app.ListReviews)
			r.Delete("/reviews/{id}", app.DeleteReview)

			r.Get("/users", app.ListUsers)
			r.Get("/users/{id}", app.GetUser)
			r.Put("/users/{id}", app.UpdateUser)

			r.Get("/restaurants", app.ListRestaurants)

			r.With(
				middleware.RateLimit(cfg.RegistrationRatePerMin, time.Minute),
				middleware.Country(lookup),
			).Post("/registration", app.Register)
		})

		if cfg.ResetEnabled() {
			r.With(middleware.OperatorToken(cfg.ResetDBToken)).Post("/reset-db", app.ResetDB)
		}
	}

	if cfg.APIPrefix == "" {
		api(r)
	} else {
		r.Route(cfg.APIPrefix, api)
	}
	return r
}
