// Package scheduler drives the periodic order-ingestion sweeps. A small
// worker pool executes sweep jobs submitted by the interval triggers;
// sweep failures are logged and never propagate past the pool.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/order"
	"go.uber.org/zap"
)

// JobStatus represents the status of a sweep job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// SweepKind identifies what a sweep job covers
type SweepKind string

const (
	// SweepAll covers every registered platform
	SweepAll SweepKind = "all-platforms-sweep"
	// SweepPriority covers the configured priority subset
	SweepPriority SweepKind = "priority-platforms-sweep"
	// SweepManual covers a single platform on demand
	SweepManual SweepKind = "manual-sweep"
)

// Job represents one scheduled sweep
type Job struct {
	ID          uuid.UUID       `json:"id"`
	Kind        SweepKind       `json:"kind"`
	Platform    *order.Platform `json:"platform,omitempty"` // only set for manual single-platform sweeps
	Status      JobStatus       `json:"status"`
	Error       string          `json:"error,omitempty"`
	SubmittedAt time.Time       `json:"submitted_at"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// NewJob creates a pending sweep job
func NewJob(kind SweepKind, platform *order.Platform) *Job {
	return &Job{
		ID:          uuid.New(),
		Kind:        kind,
		Platform:    platform,
		Status:      JobStatusPending,
		SubmittedAt: time.Now().UTC(),
	}
}

// Start marks the job as running
func (j *Job) Start() {
	now := time.Now().UTC()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

// Complete marks the job as successful
func (j *Job) Complete() {
	now := time.Now().UTC()
	j.Status = JobStatusSuccess
	j.CompletedAt = &now
}

// Fail marks the job as failed
func (j *Job) Fail(err string) {
	now := time.Now().UTC()
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err
}

// JobExecutor executes sweep jobs
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) error
}

// Config holds worker-pool configuration
type Config struct {
	Workers    int
	QueueSize  int
	JobTimeout time.Duration
}

// DefaultConfig returns the default worker-pool configuration
func DefaultConfig() Config {
	return Config{
		Workers:    2,
		QueueSize:  32,
		JobTimeout: 5 * time.Minute,
	}
}

// historySize bounds the completed-job ring kept for introspection
const historySize = 32

// Scheduler is the sweep worker pool
type Scheduler struct {
	config   Config
	executor JobExecutor
	logger   *zap.Logger

	jobs      chan *Job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	inflight  int
	history   []Job
}

// NewScheduler creates a new scheduler instance
func NewScheduler(config Config, executor JobExecutor, logger *zap.Logger) *Scheduler {
	if config.Workers <= 0 {
		config.Workers = DefaultConfig().Workers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultConfig().QueueSize
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = DefaultConfig().JobTimeout
	}
	return &Scheduler{
		config:   config,
		executor: executor,
		logger:   logger.Named("sweep_scheduler"),
		jobs:     make(chan *Job, config.QueueSize),
	}
}

// Start starts the worker pool. Starting an already running scheduler is a
// logged no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		s.logger.Info("Scheduler already running")
		return nil
	}
	s.isRunning = true
	s.jobs = make(chan *Job, s.config.QueueSize)
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.config.Workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Sweep scheduler started",
		zap.Int("workers", s.config.Workers),
		zap.Duration("job_timeout", s.config.JobTimeout))
	return nil
}

// Stop gracefully stops the worker pool, waiting for in-flight sweeps up to
// the context deadline. Stopping a stopped scheduler is a logged no-op.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		s.logger.Info("Scheduler already stopped")
		return nil
	}
	s.isRunning = false
	close(s.jobs)
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Sweep scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Sweep scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the pool is accepting jobs
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// Inflight returns the number of sweeps currently executing
func (s *Scheduler) Inflight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight
}

// RecentJobs returns the completed sweeps, newest first
func (s *Scheduler) RecentJobs() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Job, 0, len(s.history))
	for i := len(s.history) - 1; i >= 0; i-- {
		out = append(out, s.history[i])
	}
	return out
}

func (s *Scheduler) recordJob(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, *job)
	if len(s.history) > historySize {
		s.history = s.history[len(s.history)-historySize:]
	}
}

// SubmitJob queues a sweep for execution
func (s *Scheduler) SubmitJob(job *Job) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	// The enqueue happens under the same lock as the running check so
	// Stop cannot close the channel between the two.
	select {
	case s.jobs <- job:
		s.mu.Unlock()
		s.logger.Debug("Sweep job submitted",
			zap.String("job_id", job.ID.String()),
			zap.String("kind", string(job.Kind)))
		return nil
	default:
		s.mu.Unlock()
		return ErrJobQueueFull
	}
}

func (s *Scheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-s.jobs:
			if !ok {
				return
			}
			s.processJob(ctx, job, workerID)
		}
	}
}

func (s *Scheduler) processJob(ctx context.Context, job *Job, workerID int) {
	s.mu.Lock()
	s.inflight++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inflight--
		s.mu.Unlock()
	}()

	job.Start()
	s.logger.Info("Processing sweep",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("kind", string(job.Kind)))

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	if err := s.executor.Execute(jobCtx, job); err != nil {
		// Scheduled sweeps only log; there is no retry or alerting.
		job.Fail(err.Error())
		s.recordJob(job)
		s.logger.Error("Sweep failed",
			zap.Int("worker_id", workerID),
			zap.String("job_id", job.ID.String()),
			zap.String("kind", string(job.Kind)),
			zap.Error(err))
		return
	}

	job.Complete()
	s.recordJob(job)
	s.logger.Info("Sweep completed",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("kind", string(job.Kind)))
}
