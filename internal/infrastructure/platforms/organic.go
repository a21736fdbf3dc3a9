package platforms

import (
	"context"

	"github.com/orderdesk/backend/internal/domain/integration"
	"github.com/orderdesk/backend/internal/domain/order"
	"go.uber.org/zap"
)

// organicStatusTable maps the storefront's status vocabulary to the
// canonical lifecycle. The organic storefront already speaks most of the
// canonical vocabulary except shipped.
var organicStatusTable = map[string]order.Status{
	"pending":    order.StatusPending,
	"confirmed":  order.StatusConfirmed,
	"processing": order.StatusProcessing,
	"shipped":    order.StatusDispatched,
	"delivered":  order.StatusDelivered,
	"cancelled":  order.StatusCancelled,
}

// OrganicAdapter translates the in-house storefront's payloads
type OrganicAdapter struct {
	log     *zap.Logger
	mapping integration.StatusMapping
	strict  bool
}

var _ integration.PlatformAdapter = (*OrganicAdapter)(nil)

// NewOrganicAdapter creates the storefront adapter
func NewOrganicAdapter(log *zap.Logger, strict bool) *OrganicAdapter {
	return &OrganicAdapter{
		log:     log.Named("organic_adapter"),
		mapping: integration.NewStatusMapping(order.PlatformOrganic, organicStatusTable),
		strict:  strict,
	}
}

// Platform returns the platform this adapter handles
func (a *OrganicAdapter) Platform() order.Platform {
	return order.PlatformOrganic
}

// FetchOrders returns the mock storefront backlog in canonical form
func (a *OrganicAdapter) FetchOrders(ctx context.Context) ([]integration.NormalizedOrder, error) {
	a.log.Debug("Fetching orders from organic storefront")
	backlog := organicBacklog()
	orders := make([]integration.NormalizedOrder, 0, len(backlog))
	for _, payload := range backlog {
		n, err := a.TransformWebhook(ctx, payload)
		if err != nil {
			return nil, err
		}
		orders = append(orders, n)
	}
	return orders, nil
}

// TransformWebhook maps one storefront payload into the canonical shape
func (a *OrganicAdapter) TransformWebhook(_ context.Context, payload map[string]any) (integration.NormalizedOrder, error) {
	orderID, err := requireStringField(payload, "order_id")
	if err != nil {
		return integration.NormalizedOrder{}, err
	}
	orderDate, err := timeField(payload, "created_at")
	if err != nil {
		return integration.NormalizedOrder{}, err
	}
	status, err := a.mapping.Resolve(stringField(payload, "status"), a.strict)
	if err != nil {
		return integration.NormalizedOrder{}, err
	}
	items, err := transformItems(payload, itemKeys{productID: "product_id", name: "name"})
	if err != nil {
		return integration.NormalizedOrder{}, err
	}

	n := integration.NormalizedOrder{
		Platform:        order.PlatformOrganic,
		PlatformOrderID: orderID,
		OrderDate:       orderDate,
		Status:          status,
		Customer:        nestedCustomer(payload),
		Items:           items,
	}
	finishNormalized(&n, payload)
	return n, nil
}

// UpdateOrderStatus acknowledges a status change without an outbound call
func (a *OrganicAdapter) UpdateOrderStatus(_ context.Context, platformOrderID string, status order.Status) error {
	a.log.Info("Acknowledged storefront status update",
		zap.String("platform_order_id", platformOrderID),
		zap.String("status", status.String()))
	return nil
}

// organicBacklog returns the storefront's current mock order backlog
func organicBacklog() []map[string]any {
	return []map[string]any{
		{
			"order_id":   "ORG-2024-001",
			"created_at": "2024-01-15T14:00:00Z",
			"status":     "pending",
			"customer": map[string]any{
				"name":  "David Brown",
				"email": "david@example.com",
				"phone": "+91-9876543214",
			},
			"items": []map[string]any{
				{
					"product_id": "ORG-001",
					"name":       "Statement Cocktail Ring",
					"quantity":   1,
					"price":      3800,
					"sku":        "SCR-001",
				},
			},
			"total_amount": 3800,
		},
	}
}
