package order

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/order"
	"github.com/orderdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Fake repository
// ---------------------------------------------------------------------------

type fakeOrderRepo struct {
	byID       map[uuid.UUID]*order.Order
	lastFilter order.ListFilter
	stats      *order.DashboardStats
	trends     []order.DailyTrend
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		byID:  make(map[uuid.UUID]*order.Order),
		stats: &order.DashboardStats{},
	}
}

func (f *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	if o, ok := f.byID[id]; ok {
		return o, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeOrderRepo) FindByOrderNumber(_ context.Context, num string) (*order.Order, error) {
	for _, o := range f.byID {
		if o.OrderNumber == num {
			return o, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeOrderRepo) FindByPlatformOrderID(_ context.Context, p order.Platform, id string) (*order.Order, error) {
	for _, o := range f.byID {
		if o.Platform == p && o.PlatformOrderID == id {
			return o, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeOrderRepo) FindAll(_ context.Context, filter order.ListFilter) ([]order.Order, int64, error) {
	f.lastFilter = filter
	out := make([]order.Order, 0, len(f.byID))
	for _, o := range f.byID {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderRepo) Save(_ context.Context, o *order.Order) error {
	f.byID[o.ID] = o
	return nil
}

func (f *fakeOrderRepo) Update(_ context.Context, o *order.Order) error {
	if _, ok := f.byID[o.ID]; !ok {
		return shared.ErrNotFound
	}
	f.byID[o.ID] = o
	return nil
}

func (f *fakeOrderRepo) Upsert(_ context.Context, o *order.Order) (order.UpsertAction, *order.Order, error) {
	f.byID[o.ID] = o
	return order.UpsertCreated, o, nil
}

func (f *fakeOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeOrderRepo) Count(context.Context, order.ListFilter) (int64, error) {
	return int64(len(f.byID)), nil
}

func (f *fakeOrderRepo) GetDashboardStats(context.Context) (*order.DashboardStats, error) {
	return f.stats, nil
}

func (f *fakeOrderRepo) FindRecent(_ context.Context, limit int) ([]order.Order, error) {
	out := make([]order.Order, 0, limit)
	for _, o := range f.byID {
		if len(out) == limit {
			break
		}
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeOrderRepo) GetDailyTrends(context.Context, int) ([]order.DailyTrend, error) {
	return f.trends, nil
}

func newCreateRequest() CreateOrderRequest {
	return CreateOrderRequest{
		Platform:        "swiggy",
		PlatformOrderID: "SWG-2024-010",
		Customer: CustomerRequest{
			Name:  "Priya Sharma",
			Email: "priya@example.com",
		},
		Items: []ItemRequest{
			{ProductID: "P-1", Name: "Gold Pendant", Quantity: 2, UnitPrice: decimal.NewFromInt(1500)},
		},
		Subtotal: decimal.NewFromInt(3000),
		Total:    decimal.NewFromInt(3000),
	}
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

func TestService_Create(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo)

	resp, err := svc.Create(context.Background(), newCreateRequest(), "admin@orderdesk.io")
	require.NoError(t, err)

	assert.Equal(t, "swiggy", resp.Platform)
	assert.Equal(t, "SWG-2024-010", resp.OrderNumber)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "Priya Sharma", resp.Customer.Name)
	require.Len(t, resp.StatusHistory, 1)
	assert.Equal(t, "admin@orderdesk.io", resp.StatusHistory[0].Actor)
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].TotalPrice.Equal(decimal.NewFromInt(3000)))
}

func TestService_Create_DuplicatePlatformOrderID(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), newCreateRequest(), "admin")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), newCreateRequest(), "admin")
	require.Error(t, err)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "ALREADY_EXISTS", derr.Code)
}

func TestService_Create_RejectsBrokenFinancials(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo)

	req := newCreateRequest()
	req.Total = decimal.NewFromInt(9999)

	_, err := svc.Create(context.Background(), req, "admin")
	require.Error(t, err)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_TOTAL", derr.Code)
}

func TestService_ChangeStatus(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), newCreateRequest(), "admin")
	require.NoError(t, err)

	resp, err := svc.ChangeStatus(context.Background(), created.ID,
		ChangeStatusRequest{Status: "confirmed", Notes: "Verified payment"}, "support@orderdesk.io")
	require.NoError(t, err)

	assert.Equal(t, "confirmed", resp.Status)
	require.Len(t, resp.StatusHistory, 2)
	last := resp.StatusHistory[len(resp.StatusHistory)-1]
	assert.Equal(t, "confirmed", last.Status)
	assert.Equal(t, "support@orderdesk.io", last.Actor)
	assert.Equal(t, "Verified payment", last.Notes)
}

func TestService_ChangeStatus_InvalidTransition(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), newCreateRequest(), "admin")
	require.NoError(t, err)

	// pending cannot jump straight to delivered
	_, err = svc.ChangeStatus(context.Background(), created.ID,
		ChangeStatusRequest{Status: "delivered"}, "admin")
	require.Error(t, err)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_STATE", derr.Code)
}

func TestService_Update(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), newCreateRequest(), "admin")
	require.NoError(t, err)

	notes := "Customer asked for gift wrapping"
	tracking := ShippingInfoRequest{Method: "express", TrackingNumber: "TRK-42", Carrier: "Delhivery"}
	resp, err := svc.Update(context.Background(), created.ID, UpdateOrderRequest{
		ShippingInfo: &tracking,
		Notes:        &notes,
	})
	require.NoError(t, err)

	assert.Equal(t, "TRK-42", resp.ShippingInfo.TrackingNumber)
	assert.Equal(t, notes, resp.Notes)
	// untouched fields survive a partial update
	assert.Equal(t, "Priya Sharma", resp.Customer.Name)
	assert.Len(t, resp.StatusHistory, 1)
}

func TestService_List_AppliesDefaults(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), newCreateRequest(), "admin")
	require.NoError(t, err)

	summaries, total, err := svc.List(context.Background(), ListOrdersFilter{Platform: "swiggy"})
	require.NoError(t, err)

	assert.EqualValues(t, 1, total)
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, repo.lastFilter.Page)
	assert.Equal(t, 20, repo.lastFilter.Limit)
	assert.Equal(t, order.PlatformSwiggy, repo.lastFilter.Platform)
}

func TestService_Delete(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), newCreateRequest(), "admin")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	_, err = svc.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

// ---------------------------------------------------------------------------
// Analytics
// ---------------------------------------------------------------------------

func TestAnalyticsService_Dashboard(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.stats = &order.DashboardStats{
		TotalOrders:     3,
		TotalRevenue:    decimal.NewFromInt(6000),
		AvgOrderValue:   decimal.NewFromInt(2000),
		ActiveCustomers: 2,
		OrdersByStatus: map[order.Status]int64{
			order.StatusPending:   2,
			order.StatusDelivered: 1,
		},
		OrdersByPlatform: map[order.Platform]int64{
			order.PlatformAmazon: 3,
		},
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	repo.trends = []order.DailyTrend{
		{Date: today.AddDate(0, 0, -1), Orders: 1, Revenue: decimal.NewFromInt(2000)},
		{Date: today, Orders: 2, Revenue: decimal.NewFromInt(4000)},
	}

	svc := NewAnalyticsService(repo)
	dash, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 3, dash.TotalOrders)
	assert.True(t, dash.TotalRevenue.Equal(decimal.NewFromInt(6000)))
	assert.True(t, dash.AvgOrderValue.Equal(decimal.NewFromInt(2000)))
	assert.EqualValues(t, 2, dash.ActiveCustomers)
	assert.EqualValues(t, 2, dash.OrdersByStatus["pending"])
	assert.EqualValues(t, 3, dash.OrdersByPlatform["amazon"])
	require.Len(t, dash.DailyTrends, 2)
	assert.Equal(t, today.Format("2006-01-02"), dash.DailyTrends[1].Date)
}

func TestAnalyticsService_DailyTrends_DefaultWindow(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewAnalyticsService(repo)

	trends, err := svc.DailyTrends(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, trends)
}
