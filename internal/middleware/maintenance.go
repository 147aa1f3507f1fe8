package middleware

import (
	"context"
	"net/http"
	"sync"
)

// MaintenanceGate keeps ordinary requests away from the store while a
// destructive maintenance task runs. Requests hold the shared side of the
// lock; Exclusive waits for them to drain and blocks new ones until done.
type MaintenanceGate struct {
	mu sync.RWMutex
}

func NewMaintenanceGate() *MaintenanceGate {
	return &MaintenanceGate{}
}

// Shared wraps next so each request holds the shared lock while it runs.
func (g *MaintenanceGate) Shared(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.mu.RLock()
		defer g.mu.RUnlock()
		next.ServeHTTP(w, r)
	})
}

// Exclusive runs fn with the exclusive lock held.
func (g *MaintenanceGate) Exclusive(ctx context.Context, fn func(context.Context) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
