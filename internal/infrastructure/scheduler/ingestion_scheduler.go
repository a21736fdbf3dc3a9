package scheduler

import (
	"context"
	"time"

	"github.com/orderdesk/backend/internal/application/ingestion"
	"github.com/orderdesk/backend/internal/domain/order"
	"go.uber.org/zap"
)

// Status is a snapshot of the ingestion scheduler for introspection
type Status struct {
	Running             bool     `json:"running"`
	ActiveJobs          int      `json:"active_jobs"`
	JobNames            []string `json:"job_names"`
	FullIntervalMin     int      `json:"full_interval_minutes"`
	PriorityIntervalMin int      `json:"priority_interval_minutes"`
	PriorityPlatforms   []string `json:"priority_platforms"`
	RecentJobs          []Job    `json:"recent_jobs"`
}

// IngestionScheduler ties the worker pool and the interval triggers together
// behind a single lifecycle. Manual sweeps run synchronously so callers get
// the sweep outcome back; scheduled sweeps go through the pool.
type IngestionScheduler struct {
	ingestion *ingestion.Service
	pool      *Scheduler
	trigger   *SweepTrigger
	logger    *zap.Logger
}

// NewIngestionScheduler wires the pool, executor and triggers
func NewIngestionScheduler(
	svc *ingestion.Service,
	poolCfg Config,
	triggerCfg TriggerConfig,
	logger *zap.Logger,
) *IngestionScheduler {
	executor := NewSweepExecutor(svc, logger)
	pool := NewScheduler(poolCfg, executor, logger)
	trigger := NewSweepTrigger(triggerCfg, pool, logger)
	return &IngestionScheduler{
		ingestion: svc,
		pool:      pool,
		trigger:   trigger,
		logger:    logger.Named("ingestion_scheduler"),
	}
}

// Start starts the worker pool and the interval triggers. Starting an
// already running scheduler is a no-op.
func (s *IngestionScheduler) Start(ctx context.Context) error {
	if err := s.pool.Start(ctx); err != nil {
		return err
	}
	if err := s.trigger.Start(ctx); err != nil {
		return err
	}
	s.logger.Info("Ingestion scheduler started")
	return nil
}

// Stop stops the triggers first so no new jobs arrive, then drains the pool.
// Stopping a stopped scheduler is a no-op.
func (s *IngestionScheduler) Stop(ctx context.Context) error {
	s.trigger.Stop()
	if err := s.pool.Stop(ctx); err != nil {
		return err
	}
	s.logger.Info("Ingestion scheduler stopped")
	return nil
}

// IsRunning reports whether the scheduler is active
func (s *IngestionScheduler) IsRunning() bool {
	return s.pool.IsRunning()
}

// TriggerManualSweep runs a sweep immediately and returns its outcome. A nil
// platform sweeps everything; otherwise only the named platform is fetched.
func (s *IngestionScheduler) TriggerManualSweep(ctx context.Context, platform *order.Platform) (ingestion.SweepResult, error) {
	if platform == nil {
		s.logger.Info("Manual sweep triggered", zap.String("scope", "all"))
		return s.ingestion.FetchAllPlatforms(ctx), nil
	}

	s.logger.Info("Manual sweep triggered", zap.String("scope", platform.String()))
	result, err := s.ingestion.FetchPlatform(ctx, *platform)
	if err != nil {
		return ingestion.SweepResult{}, err
	}

	now := time.Now().UTC()
	return ingestion.SweepResult{
		Success:      result.Success,
		TotalOrders:  result.Orders,
		SuccessCount: 1,
		Results:      map[order.Platform]ingestion.PlatformResult{result.Platform: result},
		StartedAt:    now,
		FinishedAt:   now,
	}, nil
}

// ProcessWebhook ingests one webhook payload for the platform
func (s *IngestionScheduler) ProcessWebhook(ctx context.Context, platform order.Platform, payload map[string]any) (*ingestion.IngestResult, error) {
	return s.ingestion.IngestWebhook(ctx, platform, payload)
}

// GetStatus returns the current scheduler state
func (s *IngestionScheduler) GetStatus() Status {
	priority := s.ingestion.PriorityPlatforms()
	names := make([]string, 0, len(priority))
	for _, p := range priority {
		names = append(names, p.String())
	}

	jobNames := []string{string(SweepAll), string(SweepPriority)}
	return Status{
		Running:             s.pool.IsRunning() && s.trigger.IsRunning(),
		ActiveJobs:          s.pool.Inflight(),
		JobNames:            jobNames,
		FullIntervalMin:     int(s.trigger.config.FullInterval.Minutes()),
		PriorityIntervalMin: int(s.trigger.config.PriorityInterval.Minutes()),
		PriorityPlatforms:   names,
		RecentJobs:          s.pool.RecentJobs(),
	}
}
