package ingestion

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/integration"
	"github.com/orderdesk/backend/internal/domain/order"
	"github.com/orderdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeAdapter struct {
	platform order.Platform
	orders   []integration.NormalizedOrder
	fetchErr error
}

func (f *fakeAdapter) Platform() order.Platform { return f.platform }

func (f *fakeAdapter) FetchOrders(context.Context) ([]integration.NormalizedOrder, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.orders, nil
}

func (f *fakeAdapter) TransformWebhook(_ context.Context, payload map[string]any) (integration.NormalizedOrder, error) {
	id, _ := payload[string(f.platform)+"_order_id"].(string)
	if id == "" {
		id, _ = payload["order_id"].(string)
	}
	status := order.StatusPending
	if s, ok := payload["status"].(string); ok && order.Status(s).IsValid() {
		status = order.Status(s)
	}
	return integration.NormalizedOrder{
		Platform:        f.platform,
		PlatformOrderID: id,
		OrderDate:       time.Now().UTC(),
		Status:          status,
		PlatformData:    payload,
	}, nil
}

func (f *fakeAdapter) UpdateOrderStatus(context.Context, string, order.Status) error { return nil }

type fakeRegistry struct {
	adapters map[order.Platform]integration.PlatformAdapter
	ordered  []order.Platform
}

func newFakeRegistry(adapters ...integration.PlatformAdapter) *fakeRegistry {
	r := &fakeRegistry{adapters: make(map[order.Platform]integration.PlatformAdapter)}
	for _, a := range adapters {
		r.adapters[a.Platform()] = a
		r.ordered = append(r.ordered, a.Platform())
	}
	return r
}

func (r *fakeRegistry) Get(p order.Platform) (integration.PlatformAdapter, error) {
	a, ok := r.adapters[p]
	if !ok {
		return nil, integration.ErrUnsupportedPlatform
	}
	return a, nil
}

func (r *fakeRegistry) List() []integration.PlatformAdapter {
	out := make([]integration.PlatformAdapter, 0, len(r.ordered))
	for _, p := range r.ordered {
		out = append(out, r.adapters[p])
	}
	return out
}

func (r *fakeRegistry) Platforms() []order.Platform { return r.ordered }

// memOrderRepo is a map-backed order.Repository good enough for router tests
type memOrderRepo struct {
	byKey map[string]*order.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{byKey: make(map[string]*order.Order)}
}

func key(p order.Platform, id string) string { return fmt.Sprintf("%s/%s", p, id) }

func (m *memOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	for _, o := range m.byKey {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memOrderRepo) FindByOrderNumber(_ context.Context, num string) (*order.Order, error) {
	for _, o := range m.byKey {
		if o.OrderNumber == num {
			return o, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memOrderRepo) FindByPlatformOrderID(_ context.Context, p order.Platform, id string) (*order.Order, error) {
	if o, ok := m.byKey[key(p, id)]; ok {
		return o, nil
	}
	return nil, shared.ErrNotFound
}

func (m *memOrderRepo) FindAll(context.Context, order.ListFilter) ([]order.Order, int64, error) {
	return nil, 0, nil
}

func (m *memOrderRepo) Save(_ context.Context, o *order.Order) error {
	m.byKey[key(o.Platform, o.PlatformOrderID)] = o
	return nil
}

func (m *memOrderRepo) Update(_ context.Context, o *order.Order) error {
	m.byKey[key(o.Platform, o.PlatformOrderID)] = o
	return nil
}

func (m *memOrderRepo) Upsert(_ context.Context, o *order.Order) (order.UpsertAction, *order.Order, error) {
	k := key(o.Platform, o.PlatformOrderID)
	if existing, ok := m.byKey[k]; ok {
		if err := existing.ApplySyncedStatus(o.Status, "Platform sync"); err != nil {
			return "", nil, err
		}
		existing.Customer = o.Customer
		existing.Items = o.Items
		existing.Total = o.Total
		existing.PlatformData = o.PlatformData
		existing.MarkSynced()
		return order.UpsertUpdated, existing, nil
	}
	m.byKey[k] = o
	return order.UpsertCreated, o, nil
}

func (m *memOrderRepo) Delete(context.Context, uuid.UUID) error { return nil }

func (m *memOrderRepo) Count(context.Context, order.ListFilter) (int64, error) {
	return int64(len(m.byKey)), nil
}

func (m *memOrderRepo) GetDashboardStats(context.Context) (*order.DashboardStats, error) {
	return &order.DashboardStats{}, nil
}

func (m *memOrderRepo) FindRecent(context.Context, int) ([]order.Order, error) { return nil, nil }

func (m *memOrderRepo) GetDailyTrends(context.Context, int) ([]order.DailyTrend, error) {
	return nil, nil
}

func normalized(p order.Platform, id string, status order.Status) integration.NormalizedOrder {
	item, _ := order.NewItem("P-1", "Test Item", 1, decimal.NewFromInt(100), "SKU-1", "")
	return integration.NormalizedOrder{
		Platform:        p,
		PlatformOrderID: id,
		OrderDate:       time.Now().UTC(),
		Status:          status,
		Items:           []order.Item{item},
		Subtotal:        decimal.NewFromInt(100),
		Total:           decimal.NewFromInt(100),
	}
}

func newTestService(reg integration.AdapterRegistry, repo order.Repository) *Service {
	return NewService(reg, repo, nil, zap.NewNop(), Config{
		PriorityPlatforms: []order.Platform{order.PlatformAmazon, order.PlatformFlipkart},
	})
}

// ---------------------------------------------------------------------------
// Sweeps
// ---------------------------------------------------------------------------

func TestFetchAllPlatforms_FanOutIsolation(t *testing.T) {
	reg := newFakeRegistry(
		&fakeAdapter{platform: order.PlatformAmazon, orders: []integration.NormalizedOrder{
			normalized(order.PlatformAmazon, "A-1", order.StatusConfirmed),
		}},
		&fakeAdapter{platform: order.PlatformBlinkit, fetchErr: errors.New("upstream 503")},
		&fakeAdapter{platform: order.PlatformSwiggy, orders: []integration.NormalizedOrder{
			normalized(order.PlatformSwiggy, "S-1", order.StatusPending),
			normalized(order.PlatformSwiggy, "S-2", order.StatusConfirmed),
		}},
	)
	repo := newMemOrderRepo()
	svc := newTestService(reg, repo)

	result := svc.FetchAllPlatforms(context.Background())

	assert.False(t, result.Success)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Equal(t, 3, result.TotalOrders)

	// The failing platform is reported but does not abort the others.
	assert.NotEmpty(t, result.Results[order.PlatformBlinkit].Error)
	assert.True(t, result.Results[order.PlatformAmazon].Success)
	assert.Equal(t, 2, result.Results[order.PlatformSwiggy].Orders)
	assert.Equal(t, 2, result.Results[order.PlatformSwiggy].Created)
}

func TestFetchPlatform_Unsupported(t *testing.T) {
	svc := newTestService(newFakeRegistry(), newMemOrderRepo())

	_, err := svc.FetchPlatform(context.Background(), order.Platform("etsy"))
	assert.ErrorIs(t, err, shared.ErrUnsupportedPlatform)
}

func TestFetchPriorityPlatforms(t *testing.T) {
	amazon := &fakeAdapter{platform: order.PlatformAmazon, orders: []integration.NormalizedOrder{
		normalized(order.PlatformAmazon, "A-1", order.StatusConfirmed),
	}}
	flipkart := &fakeAdapter{platform: order.PlatformFlipkart}
	organic := &fakeAdapter{platform: order.PlatformOrganic, fetchErr: errors.New("must not be called")}
	svc := newTestService(newFakeRegistry(amazon, flipkart, organic), newMemOrderRepo())

	result := svc.FetchPriorityPlatforms(context.Background())
	assert.True(t, result.Success)
	assert.Len(t, result.Results, 2)
	assert.NotContains(t, result.Results, order.PlatformOrganic)
}

// ---------------------------------------------------------------------------
// Webhook ingestion
// ---------------------------------------------------------------------------

func TestIngestWebhook_CreateThenUpdate(t *testing.T) {
	reg := newFakeRegistry(&fakeAdapter{platform: order.PlatformAmazon})
	repo := newMemOrderRepo()
	svc := newTestService(reg, repo)

	payload := map[string]any{
		"amazon_order_id": "AMZ-TEST-001",
		"order_date":      "2024-01-15T15:30:00Z",
		"status":          "confirmed",
	}

	res, err := svc.IngestWebhook(context.Background(), order.PlatformAmazon, payload)
	require.NoError(t, err)
	assert.Equal(t, order.UpsertCreated, res.Action)
	assert.Equal(t, order.StatusConfirmed, res.Order.Status)
	require.Len(t, res.Order.StatusHistory, 1)

	// Re-ingesting the same external order updates in place.
	payload["status"] = "dispatched"
	res, err = svc.IngestWebhook(context.Background(), order.PlatformAmazon, payload)
	require.NoError(t, err)
	assert.Equal(t, order.UpsertUpdated, res.Action)
	assert.Equal(t, order.StatusDispatched, res.Order.Status)
	assert.Len(t, res.Order.StatusHistory, 2)
	assert.Len(t, repo.byKey, 1, "exactly one stored order per external key")
}

func TestIngestWebhook_ValidationFailures(t *testing.T) {
	reg := newFakeRegistry(&fakeAdapter{platform: order.PlatformAmazon})
	svc := newTestService(reg, newMemOrderRepo())

	// Missing required field for the platform.
	_, err := svc.IngestWebhook(context.Background(), order.PlatformAmazon,
		map[string]any{"amazon_order_id": "AMZ-1"})
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, shared.ErrValidation.Code, de.Code)

	// Unknown platform key.
	_, err = svc.IngestWebhook(context.Background(), order.Platform("etsy"),
		map[string]any{"order_id": "1", "created_at": "2024-01-01T00:00:00Z"})
	assert.ErrorIs(t, err, shared.ErrUnsupportedPlatform)
}

type fakeDedup struct {
	seen map[string]bool
}

func (f *fakeDedup) MarkSeen(_ context.Context, p order.Platform, id string, _ map[string]any) (bool, error) {
	k := key(p, id)
	if f.seen[k] {
		return true, nil
	}
	f.seen[k] = true
	return false, nil
}

func TestIngestWebhook_DuplicateDeliverySuppressed(t *testing.T) {
	reg := newFakeRegistry(&fakeAdapter{platform: order.PlatformOrganic})
	repo := newMemOrderRepo()
	svc := NewService(reg, repo, &fakeDedup{seen: make(map[string]bool)}, zap.NewNop(), Config{})

	payload := map[string]any{
		"order_id":   "ORG-9",
		"created_at": "2024-03-01T00:00:00Z",
		"status":     "pending",
	}

	res, err := svc.IngestWebhook(context.Background(), order.PlatformOrganic, payload)
	require.NoError(t, err)
	assert.Equal(t, order.UpsertCreated, res.Action)

	res, err = svc.IngestWebhook(context.Background(), order.PlatformOrganic, payload)
	require.NoError(t, err)
	assert.Equal(t, order.UpsertUpdated, res.Action)
	assert.Len(t, res.Order.StatusHistory, 1, "suppressed delivery does not touch the order")
}
