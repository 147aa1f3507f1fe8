package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"restoplan/internal/adapter/repo"
	"restoplan/internal/domain"
	"restoplan/internal/infra"
	"restoplan/internal/infra/password"
	"restoplan/internal/middleware"
)

const maxBodyBytes = 1 << 20

// Store is the database handle the handlers need.
type Store interface {
	infra.TxExecutor
	Ping(ctx context.Context) error
}

type App struct {
	Config *infra.Config
	Logger zerolog.Logger
	Store  Store

	Plans         domain.PlanRepository
	Roles         domain.RoleRepository
	Reviews       domain.ReviewRepository
	Users         domain.UserRepository
	Restaurants   domain.RestaurantRepository
	Registrations domain.RegistrationRepository
	Maintenance   domain.MaintenanceRepository

	Hasher password.Hasher
	Gate   *middleware.MaintenanceGate
}

// NewApp wires the PostgreSQL repositories over store.
func NewApp(cfg *infra.Config, logger zerolog.Logger, store Store) *App {
	return &App{
		Config:        cfg,
		Logger:        logger,
		Store:         store,
		Plans:         repo.NewPlanRepository(store),
		Roles:         repo.NewRoleRepository(store),
		Reviews:       repo.NewReviewRepository(store),
		Users:         repo.NewUserRepository(store),
		Restaurants:   repo.NewRestaurantRepository(store),
		Registrations: repo.NewRegistrationRepository(store),
		Maintenance:   repo.NewMaintenanceRepository(store),
		Hasher:        password.NewBcrypt(),
		Gate:          middleware.NewMaintenanceGate(),
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, msg string) {
	a.json(w, code, map[string]string{"error": msg, "code": kind})
}

// log returns the request-scoped logger, falling back to the app logger.
func (a *App) log(r *http.Request) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &a.Logger
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}
