package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UpsertAction reports whether an upsert created or updated the order
type UpsertAction string

const (
	UpsertCreated UpsertAction = "created"
	UpsertUpdated UpsertAction = "updated"
)

// ListFilter narrows and pages List results
type ListFilter struct {
	Platform  Platform
	Status    Status
	DateFrom  *time.Time
	DateTo    *time.Time
	Search    string // matches order number, customer name, customer email
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// DashboardStats aggregates order metrics for the analytics dashboard
type DashboardStats struct {
	TotalOrders      int64
	TotalRevenue     decimal.Decimal
	AvgOrderValue    decimal.Decimal
	ActiveCustomers  int64
	OrdersByStatus   map[Status]int64
	OrdersByPlatform map[Platform]int64
}

// DailyTrend is one day of the order/revenue trend series
type DailyTrend struct {
	Date    time.Time
	Orders  int64
	Revenue decimal.Decimal
}

// Repository defines the interface for order persistence
type Repository interface {
	// FindByID finds an order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by its globally unique order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindByPlatformOrderID finds an order by its natural external key
	FindByPlatformOrderID(ctx context.Context, platform Platform, platformOrderID string) (*Order, error)

	// FindAll finds orders matching the filter, returning the page and
	// the total match count
	FindAll(ctx context.Context, filter ListFilter) ([]Order, int64, error)

	// Save creates an order
	Save(ctx context.Context, o *Order) error

	// Update persists changes to an existing order
	Update(ctx context.Context, o *Order) error

	// Upsert atomically inserts or updates the order keyed on
	// (platform, platform_order_id). The write must be a single
	// conditional store operation so concurrent ingestions of the same
	// external order cannot lose updates.
	Upsert(ctx context.Context, o *Order) (UpsertAction, *Order, error)

	// Delete removes an order
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter ListFilter) (int64, error)

	// GetDashboardStats aggregates the dashboard metrics
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)

	// FindRecent returns the most recently created orders
	FindRecent(ctx context.Context, limit int) ([]Order, error)

	// GetDailyTrends returns per-day order counts and revenue for the
	// trailing window
	GetDailyTrends(ctx context.Context, days int) ([]DailyTrend, error)
}
