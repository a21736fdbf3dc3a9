package order

import (
	"context"

	"github.com/orderdesk/backend/internal/domain/order"
)

const (
	// DefaultTrendDays is the trailing window of the dashboard trend series
	DefaultTrendDays = 7

	// DefaultRecentOrders is the number of orders shown on the dashboard
	DefaultRecentOrders = 10
)

// AnalyticsService aggregates order metrics for the dashboard
type AnalyticsService struct {
	orders order.Repository
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(orders order.Repository) *AnalyticsService {
	return &AnalyticsService{
		orders: orders,
	}
}

// Dashboard builds the full dashboard payload: totals, per-status and
// per-platform breakdowns, the most recent orders, and the trailing
// daily trend series.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	stats, err := s.orders.GetDashboardStats(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.orders.FindRecent(ctx, DefaultRecentOrders)
	if err != nil {
		return nil, err
	}

	trends, err := s.orders.GetDailyTrends(ctx, DefaultTrendDays)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]int64, len(stats.OrdersByStatus))
	for status, count := range stats.OrdersByStatus {
		byStatus[status.String()] = count
	}
	byPlatform := make(map[string]int64, len(stats.OrdersByPlatform))
	for platform, count := range stats.OrdersByPlatform {
		byPlatform[platform.String()] = count
	}

	return &DashboardResponse{
		TotalOrders:      stats.TotalOrders,
		TotalRevenue:     stats.TotalRevenue,
		AvgOrderValue:    stats.AvgOrderValue,
		ActiveCustomers:  stats.ActiveCustomers,
		OrdersByStatus:   byStatus,
		OrdersByPlatform: byPlatform,
		RecentOrders:     ToOrderSummaryResponses(recent),
		DailyTrends:      toDailyTrendResponses(trends),
	}, nil
}

// DailyTrends returns the per-day order counts and revenue for the
// trailing window
func (s *AnalyticsService) DailyTrends(ctx context.Context, days int) ([]DailyTrendResponse, error) {
	if days <= 0 {
		days = DefaultTrendDays
	}
	trends, err := s.orders.GetDailyTrends(ctx, days)
	if err != nil {
		return nil, err
	}
	return toDailyTrendResponses(trends), nil
}

func toDailyTrendResponses(trends []order.DailyTrend) []DailyTrendResponse {
	out := make([]DailyTrendResponse, 0, len(trends))
	for _, t := range trends {
		out = append(out, DailyTrendResponse{
			Date:    t.Date.Format("2006-01-02"),
			Orders:  t.Orders,
			Revenue: t.Revenue,
		})
	}
	return out
}
