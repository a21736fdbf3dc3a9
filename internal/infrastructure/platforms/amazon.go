package platforms

import (
	"context"

	"github.com/orderdesk/backend/internal/domain/integration"
	"github.com/orderdesk/backend/internal/domain/order"
	"go.uber.org/zap"
)

// amazonStatusTable maps Amazon's status vocabulary to the canonical lifecycle
var amazonStatusTable = map[string]order.Status{
	"pending":   order.StatusPending,
	"confirmed": order.StatusConfirmed,
	"shipped":   order.StatusDispatched,
	"delivered": order.StatusDelivered,
	"cancelled": order.StatusCancelled,
}

// AmazonAdapter translates Amazon marketplace payloads into canonical orders
type AmazonAdapter struct {
	log     *zap.Logger
	mapping integration.StatusMapping
	strict  bool
}

var _ integration.PlatformAdapter = (*AmazonAdapter)(nil)

// NewAmazonAdapter creates the Amazon adapter. strict controls whether
// unmapped source statuses are rejected instead of falling back to pending.
func NewAmazonAdapter(log *zap.Logger, strict bool) *AmazonAdapter {
	return &AmazonAdapter{
		log:     log.Named("amazon_adapter"),
		mapping: integration.NewStatusMapping(order.PlatformAmazon, amazonStatusTable),
		strict:  strict,
	}
}

// Platform returns the platform this adapter handles
func (a *AmazonAdapter) Platform() order.Platform {
	return order.PlatformAmazon
}

// FetchOrders returns the mock Amazon backlog in canonical form
func (a *AmazonAdapter) FetchOrders(ctx context.Context) ([]integration.NormalizedOrder, error) {
	a.log.Debug("Fetching orders from Amazon")
	backlog := amazonBacklog()
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

// TransformWebhook maps one Amazon payload into the canonical shape
func (a *AmazonAdapter) TransformWebhook(_ context.Context, payload map[string]any) (integration.NormalizedOrder, error) {
	orderID, err := requireStringField(payload, "amazon_order_id")
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
	items, err := transformItems(payload, itemKeys{productID: "asin", name: "title"})
	if err != nil {
		return integration.NormalizedOrder{}, err
	}

	n := integration.NormalizedOrder{
		Platform:        order.PlatformAmazon,
		PlatformOrderID: orderID,
		OrderDate:       orderDate,
		Status:          status,
		Customer: order.Customer{
			Name:  stringField(payload, "buyer_name"),
			Email: stringField(payload, "buyer_email"),
			Phone: stringField(payload, "buyer_phone"),
		},
		Items: items,
	}
	finishNormalized(&n, payload)
	return n, nil
}

// UpdateOrderStatus acknowledges a status change. The mock adapter makes no
// outbound call.
func (a *AmazonAdapter) UpdateOrderStatus(_ context.Context, platformOrderID string, status order.Status) error {
	a.log.Info("Acknowledged Amazon status update",
		zap.String("platform_order_id", platformOrderID),
		zap.String("status", status.String()))
	return nil
}

// amazonBacklog returns the platform's current mock order backlog
func amazonBacklog() []map[string]any {
	return []map[string]any{
		{
			"amazon_order_id": "AMZ-2024-001",
			"order_date":      "2024-01-15T10:30:00Z",
			"status":          "shipped",
			"buyer_name":      "John Doe",
			"buyer_email":     "john@example.com",
			"buyer_phone":     "+91-9876543210",
			"items": []map[string]any{
				{
					"asin":     "B08N5WRWNW",
					"title":    "Diamond Huggie Hoop Earrings",
					"quantity": 1,
					"price":    3500,
					"sku":      "DHH-001",
				},
			},
			"total_amount": 3500,
		},
	}
}
