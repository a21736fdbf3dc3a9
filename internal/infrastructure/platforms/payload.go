// Package platforms contains the marketplace adapters. Each adapter serves
// a fixed mock backlog and translates inbound webhook payloads into the
// canonical order schema; a real HTTP client can replace the mock source
// without changing the adapter contract.
package platforms

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/orderdesk/backend/internal/domain/integration"
	"github.com/orderdesk/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Payload field extraction
// ---------------------------------------------------------------------------

func stringField(payload map[string]any, key string) string {
	if v, ok := payload[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func requireStringField(payload map[string]any, key string) (string, error) {
	s := stringField(payload, key)
	if s == "" {
		return "", fmt.Errorf("%w: %q", integration.ErrMissingWebhookField, key)
	}
	return s, nil
}

func decimalField(payload map[string]any, key string) decimal.Decimal {
	v, ok := payload[key]
	if !ok || v == nil {
		return decimal.Zero
	}
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n)
	case int:
		return decimal.NewFromInt(int64(n))
	case int64:
		return decimal.NewFromInt(n)
	case json.Number:
		if d, err := decimal.NewFromString(n.String()); err == nil {
			return d
		}
	case string:
		if d, err := decimal.NewFromString(n); err == nil {
			return d
		}
	case decimal.Decimal:
		return n
	}
	return decimal.Zero
}

func intField(payload map[string]any, key string) int {
	v, ok := payload[key]
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
	}
	return 0
}

func timeField(payload map[string]any, key string) (time.Time, error) {
	raw, err := requireStringField(payload, key)
	if err != nil {
		return time.Time{}, err
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, perr := time.Parse(layout, raw); perr == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: cannot parse %q as timestamp", integration.ErrMalformedPayload, raw)
}

func mapField(payload map[string]any, key string) map[string]any {
	if v, ok := payload[key]; ok {
		if m, ok := v.(map[string]any); ok {
			return m
		}
	}
	return nil
}

func sliceField(payload map[string]any, key string) []map[string]any {
	v, ok := payload[key]
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		// Fixtures hand the items over already typed.
		if typed, ok := v.([]map[string]any); ok {
			return typed
		}
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, e := range raw {
		if m, ok := e.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Shared transform pieces
// ---------------------------------------------------------------------------

// itemKeys names the per-platform source fields of an order line. Quantity,
// price and sku share names across every platform.
type itemKeys struct {
	productID string
	name      string
}

func transformItems(payload map[string]any, keys itemKeys) ([]order.Item, error) {
	raw := sliceField(payload, "items")
	items := make([]order.Item, 0, len(raw))
	for _, entry := range raw {
		item, err := order.NewItem(
			stringField(entry, keys.productID),
			stringField(entry, keys.name),
			intField(entry, "quantity"),
			decimalField(entry, "price"),
			stringField(entry, "sku"),
			stringField(entry, "category"),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", integration.ErrMalformedPayload, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// nestedCustomer reads the {customer: {name, email, phone}} shape used by
// flipkart, swiggy and the organic storefront
func nestedCustomer(payload map[string]any) order.Customer {
	c := mapField(payload, "customer")
	cust := order.Customer{
		Name:  stringField(c, "name"),
		Email: stringField(c, "email"),
		Phone: stringField(c, "phone"),
	}
	if addr := mapField(c, "address"); addr != nil {
		cust.Address = order.Address{
			Street:  stringField(addr, "street"),
			City:    stringField(addr, "city"),
			State:   stringField(addr, "state"),
			Pincode: stringField(addr, "pincode"),
			Country: stringField(addr, "country"),
		}
	}
	return cust
}

// finishNormalized fills the financial fields shared by every platform:
// subtotal from the recomputed item totals, total from the payload's
// total_amount with the item sum as fallback.
func finishNormalized(n *integration.NormalizedOrder, payload map[string]any) {
	subtotal := decimal.Zero
	for _, it := range n.Items {
		subtotal = subtotal.Add(it.TotalPrice)
	}
	n.Subtotal = subtotal
	n.Total = decimalField(payload, "total_amount")
	if n.Total.IsZero() {
		n.Total = subtotal
	}
	if n.Currency == "" {
		n.Currency = order.DefaultCurrency
	}
	n.PlatformData = payload
}
