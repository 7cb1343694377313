// Package statistics serves the report tabs and keeps the polled dashboard
// summary shared by every session.
package statistics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/posadmin/internal/domain/models"
)

// Gateway is the subset of the backend client statistics need.
type Gateway interface {
	SalesReport(ctx context.Context) (*models.SalesReport, error)
	PurchasesReport(ctx context.Context) (*models.PurchasesReport, error)
	FinanceReport(ctx context.Context) (*models.FinanceReport, error)
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
}

// SnapshotSink records dashboard readings.
type SnapshotSink interface {
	SaveDashboardSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error
}

// SnapshotHistory lists recorded dashboard readings, newest first.
type SnapshotHistory interface {
	ListDashboardSnapshots(ctx context.Context, limit int) ([]models.DashboardSnapshot, error)
}

// DashboardState is the dashboard as presented: the last good reading plus
// the outcome of the latest refresh.
type DashboardState struct {
	Stats     *models.DashboardStats `json:"stats"`
	Loading   bool                   `json:"loading"`
	Error     string                 `json:"error,omitempty"`
	UpdatedAt time.Time              `json:"updatedAt,omitempty"`
}

// Service exposes the statistics endpoints.
type Service struct {
	gw      Gateway
	sinks   []SnapshotSink
	history SnapshotHistory
	logger  *zap.Logger
	now     func() time.Time

	mu    sync.RWMutex
	state DashboardState
}

// Option customizes a Service.
type Option func(*Service)

// WithSnapshotSink records every successful dashboard refresh into sink.
func WithSnapshotSink(sink SnapshotSink) Option {
	return func(s *Service) {
		if sink != nil {
			s.sinks = append(s.sinks, sink)
		}
	}
}

// WithHistory enables History.
func WithHistory(history SnapshotHistory) Option {
	return func(s *Service) {
		s.history = history
	}
}

// NewService wires a new statistics service instance.
func NewService(gw Gateway, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{gw: gw, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SalesReport loads the sales statistics tab.
func (s *Service) SalesReport(ctx context.Context) (*models.SalesReport, error) {
	return s.gw.SalesReport(ctx)
}

// PurchasesReport loads the purchases statistics tab.
func (s *Service) PurchasesReport(ctx context.Context) (*models.PurchasesReport, error) {
	return s.gw.PurchasesReport(ctx)
}

// FinanceReport loads the finance statistics tab.
func (s *Service) FinanceReport(ctx context.Context) (*models.FinanceReport, error) {
	return s.gw.FinanceReport(ctx)
}

// Dashboard returns the current dashboard state.
func (s *Service) Dashboard() DashboardState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Refresh polls the dashboard summary. A failed poll keeps the previous
// reading and records the error; a successful one clears it and is handed to
// the snapshot sinks.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.state.Loading = true
	s.mu.Unlock()

	stats, err := s.gw.DashboardStats(ctx)

	s.mu.Lock()
	s.state.Loading = false
	if err != nil {
		s.state.Error = err.Error()
		s.mu.Unlock()
		s.logger.Warn("dashboard refresh failed", zap.Error(err))
		return fmt.Errorf("refresh dashboard: %w", err)
	}
	takenAt := s.now().UTC()
	s.state.Stats = stats
	s.state.Error = ""
	s.state.UpdatedAt = takenAt
	s.mu.Unlock()

	snapshot := models.NewDashboardSnapshot(*stats, takenAt)
	for _, sink := range s.sinks {
		if err := sink.SaveDashboardSnapshot(ctx, snapshot); err != nil {
			s.logger.Warn("dashboard snapshot not recorded", zap.Error(err))
		}
	}
	return nil
}

// History lists up to limit recorded dashboard readings, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]models.DashboardSnapshot, error) {
	if s.history == nil {
		return []models.DashboardSnapshot{}, nil
	}
	if limit <= 0 || limit > maxHistory {
		limit = maxHistory
	}
	return s.history.ListDashboardSnapshots(ctx, limit)
}

const maxHistory = 500
