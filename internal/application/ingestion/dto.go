package ingestion

import (
	"time"

	"github.com/orderdesk/backend/internal/domain/order"
)

// PlatformResult is the outcome of one platform's fetch-and-upsert pass
type PlatformResult struct {
	Platform order.Platform `json:"platform"`
	Success  bool           `json:"success"`
	Orders   int            `json:"orders"`
	Created  int            `json:"created"`
	Updated  int            `json:"updated"`
	Error    string         `json:"error,omitempty"`
}

// SweepResult aggregates one multi-platform sweep
type SweepResult struct {
	Success      bool                             `json:"success"`
	TotalOrders  int                              `json:"total_orders"`
	SuccessCount int                              `json:"success_count"`
	ErrorCount   int                              `json:"error_count"`
	Results      map[order.Platform]PlatformResult `json:"results"`
	StartedAt    time.Time                        `json:"started_at"`
	FinishedAt   time.Time                        `json:"finished_at"`
}

// IngestResult is the outcome of one webhook ingestion
type IngestResult struct {
	Action order.UpsertAction `json:"action"`
	Order  *order.Order       `json:"order"`
}
