package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TriggerConfig holds the sweep intervals
type TriggerConfig struct {
	FullInterval     time.Duration
	PriorityInterval time.Duration
}

// DefaultTriggerConfig returns the default sweep intervals
func DefaultTriggerConfig() TriggerConfig {
	return TriggerConfig{
		FullInterval:     15 * time.Minute,
		PriorityInterval: 30 * time.Minute,
	}
}

// SweepTrigger submits interval-based sweep jobs to the scheduler. It runs
// two tickers, one for the all-platforms sweep and one for the priority
// subset.
type SweepTrigger struct {
	config    TriggerConfig
	scheduler *Scheduler
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewSweepTrigger creates a trigger bound to the given scheduler
func NewSweepTrigger(config TriggerConfig, scheduler *Scheduler, logger *zap.Logger) *SweepTrigger {
	if config.FullInterval <= 0 {
		config.FullInterval = DefaultTriggerConfig().FullInterval
	}
	if config.PriorityInterval <= 0 {
		config.PriorityInterval = DefaultTriggerConfig().PriorityInterval
	}
	return &SweepTrigger{
		config:    config,
		scheduler: scheduler,
		logger:    logger.Named("sweep_trigger"),
	}
}

// Start launches both interval loops
func (t *SweepTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		t.logger.Info("Sweep trigger already running")
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(2)
	go t.runLoop(ctx, t.config.FullInterval, SweepAll)
	go t.runLoop(ctx, t.config.PriorityInterval, SweepPriority)

	t.logger.Info("Sweep trigger started",
		zap.Duration("full_interval", t.config.FullInterval),
		zap.Duration("priority_interval", t.config.PriorityInterval))
	return nil
}

// Stop halts both interval loops
func (t *SweepTrigger) Stop() {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	t.wg.Wait()
	t.logger.Info("Sweep trigger stopped")
}

// IsRunning reports whether the interval loops are active
func (t *SweepTrigger) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.isRunning
}

func (t *SweepTrigger) runLoop(ctx context.Context, interval time.Duration, kind SweepKind) {
	defer t.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.submit(kind)
		}
	}
}

func (t *SweepTrigger) submit(kind SweepKind) {
	job := NewJob(kind, nil)
	if err := t.scheduler.SubmitJob(job); err != nil {
		t.logger.Warn("Failed to submit scheduled sweep",
			zap.String("kind", string(kind)),
			zap.Error(err))
		return
	}
	t.logger.Debug("Scheduled sweep submitted",
		zap.String("kind", string(kind)),
		zap.String("job_id", job.ID.String()))
}
