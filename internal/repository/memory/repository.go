// Package memory is the process-local storage used when MongoDB is not
// configured. Contents are lost on restart.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/mamadbah2/posadmin/internal/domain/models"
)

// Repository keeps snapshots and preferences in memory.
type Repository struct {
	maxSnapshots int

	mu          sync.RWMutex
	snapshots   []models.DashboardSnapshot
	preferences map[string]models.Preferences
}

// NewRepository returns an empty store keeping at most maxSnapshots readings.
func NewRepository(maxSnapshots int) *Repository {
	return &Repository{
		maxSnapshots: maxSnapshots,
		preferences:  make(map[string]models.Preferences),
	}
}

func (r *Repository) SaveDashboardSnapshot(_ context.Context, snapshot models.DashboardSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, snapshot)
	if r.maxSnapshots > 0 && len(r.snapshots) > r.maxSnapshots {
		r.snapshots = slices.Clone(r.snapshots[len(r.snapshots)-r.maxSnapshots:])
	}
	return nil
}

// ListDashboardSnapshots returns up to limit readings, newest first.
func (r *Repository) ListDashboardSnapshots(_ context.Context, limit int) ([]models.DashboardSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.DashboardSnapshot, 0, min(limit, len(r.snapshots)))
	for i := len(r.snapshots) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.snapshots[i])
	}
	return out, nil
}

func (r *Repository) GetPreferences(_ context.Context, email string) (models.Preferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if prefs, ok := r.preferences[email]; ok {
		return prefs, nil
	}
	return models.DefaultPreferences(email), nil
}

func (r *Repository) SavePreferences(_ context.Context, prefs models.Preferences) error {
	if prefs.UpdatedAt.IsZero() {
		prefs.UpdatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.preferences[prefs.Email] = prefs
	return nil
}

func (r *Repository) Close(context.Context) error {
	return nil
}
