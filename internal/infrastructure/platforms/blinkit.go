package platforms

import (
	"context"

	"github.com/orderdesk/backend/internal/domain/integration"
	"github.com/orderdesk/backend/internal/domain/order"
	"go.uber.org/zap"
)

// blinkitStatusTable maps Blinkit's status vocabulary to the canonical lifecycle
var blinkitStatusTable = map[string]order.Status{
	"confirmed":        order.StatusConfirmed,
	"preparing":        order.StatusProcessing,
	"out_for_delivery": order.StatusDispatched,
	"delivered":        order.StatusDelivered,
	"cancelled":        order.StatusCancelled,
}

// BlinkitAdapter translates Blinkit payloads into canonical orders
type BlinkitAdapter struct {
	log     *zap.Logger
	mapping integration.StatusMapping
	strict  bool
}

var _ integration.PlatformAdapter = (*BlinkitAdapter)(nil)

// NewBlinkitAdapter creates the Blinkit adapter
func NewBlinkitAdapter(log *zap.Logger, strict bool) *BlinkitAdapter {
	return &BlinkitAdapter{
		log:     log.Named("blinkit_adapter"),
		mapping: integration.NewStatusMapping(order.PlatformBlinkit, blinkitStatusTable),
		strict:  strict,
	}
}

// Platform returns the platform this adapter handles
func (a *BlinkitAdapter) Platform() order.Platform {
	return order.PlatformBlinkit
}

// FetchOrders returns the mock Blinkit backlog in canonical form
func (a *BlinkitAdapter) FetchOrders(ctx context.Context) ([]integration.NormalizedOrder, error) {
	a.log.Debug("Fetching orders from Blinkit")
	backlog := blinkitBacklog()
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

// TransformWebhook maps one Blinkit payload into the canonical shape.
// Blinkit carries its status under order_status and flat customer_* fields.
func (a *BlinkitAdapter) TransformWebhook(_ context.Context, payload map[string]any) (integration.NormalizedOrder, error) {
	orderID, err := requireStringField(payload, "blinkit_order_id")
	if err != nil {
		return integration.NormalizedOrder{}, err
	}
	orderDate, err := timeField(payload, "created_at")
	if err != nil {
		return integration.NormalizedOrder{}, err
	}
	status, err := a.mapping.Resolve(stringField(payload, "order_status"), a.strict)
	if err != nil {
		return integration.NormalizedOrder{}, err
	}
	items, err := transformItems(payload, itemKeys{productID: "product_id", name: "product_name"})
	if err != nil {
		return integration.NormalizedOrder{}, err
	}

	n := integration.NormalizedOrder{
		Platform:        order.PlatformBlinkit,
		PlatformOrderID: orderID,
		OrderDate:       orderDate,
		Status:          status,
		Customer: order.Customer{
			Name:  stringField(payload, "customer_name"),
			Email: stringField(payload, "customer_email"),
			Phone: stringField(payload, "customer_phone"),
		},
		Items: items,
	}
	finishNormalized(&n, payload)
	return n, nil
}

// UpdateOrderStatus acknowledges a status change without an outbound call
func (a *BlinkitAdapter) UpdateOrderStatus(_ context.Context, platformOrderID string, status order.Status) error {
	a.log.Info("Acknowledged Blinkit status update",
		zap.String("platform_order_id", platformOrderID),
		zap.String("status", status.String()))
	return nil
}

// blinkitBacklog returns the platform's current mock order backlog
func blinkitBacklog() []map[string]any {
	return []map[string]any{
		{
			"blinkit_order_id": "BLK-2024-001",
			"created_at":       "2024-01-15T11:00:00Z",
			"order_status":     "confirmed",
			"customer_name":    "Jane Smith",
			"customer_email":   "jane@example.com",
			"customer_phone":   "+91-9876543211",
			"items": []map[string]any{
				{
					"product_id":   "BLK-001",
					"product_name": "Golden Flutter Studs",
					"quantity":     2,
					"price":        1800,
					"sku":          "GFS-001",
				},
			},
			"total_amount": 3600,
		},
	}
}
