package platforms

import (
	"context"

	"github.com/orderdesk/backend/internal/domain/integration"
	"github.com/orderdesk/backend/internal/domain/order"
	"go.uber.org/zap"
)

// flipkartStatusTable maps Flipkart's status vocabulary to the canonical lifecycle
var flipkartStatusTable = map[string]order.Status{
	"confirmed":  order.StatusConfirmed,
	"processing": order.StatusProcessing,
	"shipped":    order.StatusDispatched,
	"delivered":  order.StatusDelivered,
	"cancelled":  order.StatusCancelled,
}

// FlipkartAdapter translates Flipkart payloads into canonical orders
type FlipkartAdapter struct {
	log     *zap.Logger
	mapping integration.StatusMapping
	strict  bool
}

var _ integration.PlatformAdapter = (*FlipkartAdapter)(nil)

// NewFlipkartAdapter creates the Flipkart adapter
func NewFlipkartAdapter(log *zap.Logger, strict bool) *FlipkartAdapter {
	return &FlipkartAdapter{
		log:     log.Named("flipkart_adapter"),
		mapping: integration.NewStatusMapping(order.PlatformFlipkart, flipkartStatusTable),
		strict:  strict,
	}
}

// Platform returns the platform this adapter handles
func (a *FlipkartAdapter) Platform() order.Platform {
	return order.PlatformFlipkart
}

// FetchOrders returns the mock Flipkart backlog in canonical form
func (a *FlipkartAdapter) FetchOrders(ctx context.Context) ([]integration.NormalizedOrder, error) {
	a.log.Debug("Fetching orders from Flipkart")
	backlog := flipkartBacklog()
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

// TransformWebhook maps one Flipkart payload into the canonical shape
func (a *FlipkartAdapter) TransformWebhook(_ context.Context, payload map[string]any) (integration.NormalizedOrder, error) {
	orderID, err := requireStringField(payload, "flipkart_order_id")
	if err != nil {
		return integration.NormalizedOrder{}, err
	}
	orderDate, err := timeField(payload, "order_date")
	if err != nil {
		return integration.NormalizedOrder{}, err
	}
	status, err := a.mapping.Resolve(stringField(payload, "status"), a.strict)
	if err != nil {
		return integration.NormalizedOrder{}, err
	}
	items, err := transformItems(payload, itemKeys{productID: "product_id", name: "title"})
	if err != nil {
		return integration.NormalizedOrder{}, err
	}

	n := integration.NormalizedOrder{
		Platform:        order.PlatformFlipkart,
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
func (a *FlipkartAdapter) UpdateOrderStatus(_ context.Context, platformOrderID string, status order.Status) error {
	a.log.Info("Acknowledged Flipkart status update",
		zap.String("platform_order_id", platformOrderID),
		zap.String("status", status.String()))
	return nil
}

// flipkartBacklog returns the platform's current mock order backlog
func flipkartBacklog() []map[string]any {
	return []map[string]any{
		{
			"flipkart_order_id": "FLP-2024-001",
			"order_date":        "2024-01-15T12:00:00Z",
			"status":            "processing",
			"customer": map[string]any{
				"name":  "Mike Johnson",
				"email": "mike@example.com",
				"phone": "+91-9876543212",
			},
			"items": []map[string]any{
				{
					"product_id": "FLP-001",
					"title":      "Pearl Drape Drops",
					"quantity":   1,
					"price":      2600,
					"sku":        "PDD-001",
				},
			},
			"total_amount": 2600,
		},
	}
}
