package platforms

import (
	"context"

	"github.com/orderdesk/backend/internal/domain/integration"
	"github.com/orderdesk/backend/internal/domain/order"
	"go.uber.org/zap"
)

// swiggyStatusTable maps Swiggy's status vocabulary to the canonical lifecycle
var swiggyStatusTable = map[string]order.Status{
	"confirmed":        order.StatusConfirmed,
	"preparing":        order.StatusProcessing,
	"out_for_delivery": order.StatusDispatched,
	"delivered":        order.StatusDelivered,
	"cancelled":        order.StatusCancelled,
}

// SwiggyAdapter translates Swiggy payloads into canonical orders
type SwiggyAdapter struct {
	log     *zap.Logger
	mapping integration.StatusMapping
	strict  bool
}

var _ integration.PlatformAdapter = (*SwiggyAdapter)(nil)

// NewSwiggyAdapter creates the Swiggy adapter
func NewSwiggyAdapter(log *zap.Logger, strict bool) *SwiggyAdapter {
	return &SwiggyAdapter{
		log:     log.Named("swiggy_adapter"),
		mapping: integration.NewStatusMapping(order.PlatformSwiggy, swiggyStatusTable),
		strict:  strict,
	}
}

// Platform returns the platform this adapter handles
func (a *SwiggyAdapter) Platform() order.Platform {
	return order.PlatformSwiggy
}

// FetchOrders returns the mock Swiggy backlog in canonical form
func (a *SwiggyAdapter) FetchOrders(ctx context.Context) ([]integration.NormalizedOrder, error) {
	a.log.Debug("Fetching orders from Swiggy")
	backlog := swiggyBacklog()
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

// TransformWebhook maps one Swiggy payload into the canonical shape
func (a *SwiggyAdapter) TransformWebhook(_ context.Context, payload map[string]any) (integration.NormalizedOrder, error) {
	orderID, err := requireStringField(payload, "swiggy_order_id")
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
	items, err := transformItems(payload, itemKeys{productID: "item_id", name: "item_name"})
	if err != nil {
		return integration.NormalizedOrder{}, err
	}

	n := integration.NormalizedOrder{
		Platform:        order.PlatformSwiggy,
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
func (a *SwiggyAdapter) UpdateOrderStatus(_ context.Context, platformOrderID string, status order.Status) error {
	a.log.Info("Acknowledged Swiggy status update",
		zap.String("platform_order_id", platformOrderID),
		zap.String("status", status.String()))
	return nil
}

// swiggyBacklog returns the platform's current mock order backlog
func swiggyBacklog() []map[string]any {
	return []map[string]any{
		{
			"swiggy_order_id": "SWG-2024-001",
			"created_at":      "2024-01-15T13:00:00Z",
			"status":          "confirmed",
			"customer": map[string]any{
				"name":  "Sarah Wilson",
				"email": "sarah@example.com",
				"phone": "+91-9876543213",
			},
			"items": []map[string]any{
				{
					"item_id":   "SWG-001",
					"item_name": "Tennis Bracelet",
					"quantity":  1,
					"price":     4500,
					"sku":       "TB-001",
				},
			},
			"total_amount": 4500,
		},
	}
}
