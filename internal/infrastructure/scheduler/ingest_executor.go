package scheduler

import (
	"context"
	"fmt"

	"github.com/orderdesk/backend/internal/application/ingestion"
	"go.uber.org/zap"
)

// SweepExecutor runs ingestion sweeps on behalf of the worker pool
type SweepExecutor struct {
	ingestion *ingestion.Service
	logger    *zap.Logger
}

// NewSweepExecutor creates an executor backed by the ingestion service
func NewSweepExecutor(svc *ingestion.Service, logger *zap.Logger) *SweepExecutor {
	return &SweepExecutor{
		ingestion: svc,
		logger:    logger.Named("sweep_executor"),
	}
}

var _ JobExecutor = (*SweepExecutor)(nil)

// Execute dispatches the job to the matching ingestion sweep
func (e *SweepExecutor) Execute(ctx context.Context, job *Job) error {
	switch job.Kind {
	case SweepAll:
		e.logResult(job, e.ingestion.FetchAllPlatforms(ctx))
		return nil
	case SweepPriority:
		e.logResult(job, e.ingestion.FetchPriorityPlatforms(ctx))
		return nil
	case SweepManual:
		if job.Platform == nil {
			e.logResult(job, e.ingestion.FetchAllPlatforms(ctx))
			return nil
		}
		result, err := e.ingestion.FetchPlatform(ctx, *job.Platform)
		if err != nil {
			return err
		}
		e.logger.Info("Manual sweep finished",
			zap.String("job_id", job.ID.String()),
			zap.String("platform", string(result.Platform)),
			zap.Int("orders", result.Orders),
			zap.Int("created", result.Created),
			zap.Int("updated", result.Updated))
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSweepKind, job.Kind)
	}
}

func (e *SweepExecutor) logResult(job *Job, result ingestion.SweepResult) {
	e.logger.Info("Sweep finished",
		zap.String("job_id", job.ID.String()),
		zap.String("kind", string(job.Kind)),
		zap.Bool("success", result.Success),
		zap.Int("total_orders", result.TotalOrders),
		zap.Int("platforms_ok", result.SuccessCount),
		zap.Int("platforms_failed", result.ErrorCount))
}
