package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DashboardRefresher polls the dashboard summary.
type DashboardRefresher interface {
	Refresh(ctx context.Context) error
}

// WorkspaceEvictor drops workspaces idle for longer than the given duration.
type WorkspaceEvictor interface {
	EvictIdle(idle time.Duration) int
}

// Config holds the job cadences.
type Config struct {
	DashboardInterval time.Duration
	WorkspaceIdleTTL  time.Duration
	// EvictionSpec is the cron spec of the eviction sweep.
	EvictionSpec string
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	chain     cron.Chain
	wg        sync.WaitGroup
	dashboard DashboardRefresher
	evictor   WorkspaceEvictor
	cfg       Config
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg Config, dashboard DashboardRefresher, evictor WorkspaceEvictor, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.EvictionSpec == "" {
		cfg.EvictionSpec = "*/10 * * * *"
	}

	// A slow poll must not overlap the next one.
	chain := cron.NewChain(
		cron.Recover(cron.DiscardLogger),
		cron.SkipIfStillRunning(cron.DiscardLogger),
	)

	return &Scheduler{
		cron:      cron.New(),
		chain:     chain,
		dashboard: dashboard,
		evictor:   evictor,
		cfg:       cfg,
		logger:    logger,
	}
}

// Start registers the jobs, runs a first dashboard poll and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler",
		zap.Duration("dashboard_interval", s.cfg.DashboardInterval),
		zap.String("eviction_spec", s.cfg.EvictionSpec))

	// The first poll and the interval ticks share one wrapped job so they
	// never overlap.
	var dashboardJob cron.Job
	if s.dashboard != nil {
		dashboardJob = s.chain.Then(cron.FuncJob(s.refreshDashboard))
		spec := fmt.Sprintf("@every %s", s.cfg.DashboardInterval)
		if _, err := s.cron.AddJob(spec, dashboardJob); err != nil {
			return fmt.Errorf("schedule dashboard refresh: %w", err)
		}
	}
	if s.evictor != nil {
		if _, err := s.cron.AddJob(s.cfg.EvictionSpec, s.chain.Then(cron.FuncJob(s.evictWorkspaces))); err != nil {
			return fmt.Errorf("schedule workspace eviction: %w", err)
		}
	}

	s.cron.Start()
	if dashboardJob != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			dashboardJob.Run()
		}()
	}
	return nil
}

// Stop stops the scheduler and waits for running jobs, including the first
// dashboard poll, to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
	s.wg.Wait()
}

func (s *Scheduler) refreshDashboard() {
	timeout := s.cfg.DashboardInterval
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.dashboard.Refresh(ctx); err != nil {
		s.logger.Warn("scheduled dashboard refresh failed", zap.Error(err))
		return
	}
	s.logger.Debug("dashboard refreshed")
}

func (s *Scheduler) evictWorkspaces() {
	n := s.evictor.EvictIdle(s.cfg.WorkspaceIdleTTL)
	s.logger.Debug("workspace sweep finished", zap.Int("evicted", n))
}
