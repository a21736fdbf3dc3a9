package integration

import (
	"context"
	"errors"
	"time"

	"github.com/orderdesk/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

var (
	ErrUnsupportedPlatform  = errors.New("integration: unsupported platform")
	ErrAdapterFetchFailed   = errors.New("integration: platform fetch failed")
	ErrMissingWebhookField  = errors.New("integration: required webhook field missing")
	ErrMalformedPayload     = errors.New("integration: malformed webhook payload")
	ErrUnmappedSourceStatus = errors.New("integration: unmapped source status")
)

// ---------------------------------------------------------------------------
// NormalizedOrder
// ---------------------------------------------------------------------------

// NormalizedOrder is an order expressed in the canonical schema, produced by
// a platform adapter from either a fetched backlog entry or a webhook
// payload. It carries no identity; the ingestion upsert resolves identity
// via the (platform, platform order ID) key.
type NormalizedOrder struct {
	Platform        order.Platform
	PlatformOrderID string
	OrderDate       time.Time
	Status          order.Status
	Customer        order.Customer
	Items           []order.Item
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	ShippingFee     decimal.Decimal
	Discount        decimal.Decimal
	Total           decimal.Decimal
	Currency        string
	ShippingInfo    order.ShippingInfo
	// PlatformData retains the original source payload for audit
	PlatformData map[string]any
}

// Validate checks the normalized order is complete enough to ingest
func (n *NormalizedOrder) Validate() error {
	if !n.Platform.IsValid() {
		return ErrUnsupportedPlatform
	}
	if n.PlatformOrderID == "" {
		return ErrMissingWebhookField
	}
	if !n.Status.IsValid() {
		return ErrUnmappedSourceStatus
	}
	return nil
}

// ---------------------------------------------------------------------------
// PlatformAdapter Port Interface
// ---------------------------------------------------------------------------

// PlatformAdapter translates between one marketplace's payload shape and
// the canonical order schema. Implementations are stateless: pure functions
// of their input plus static lookup tables. The adapters in this repository
// serve fixed mock backlogs; a real HTTP client can be substituted without
// touching the router or scheduler.
type PlatformAdapter interface {
	// Platform returns the platform this adapter handles
	Platform() order.Platform

	// FetchOrders returns the platform's current order backlog in
	// canonical form
	FetchOrders(ctx context.Context) ([]NormalizedOrder, error)

	// TransformWebhook maps one platform-specific webhook payload into
	// the canonical shape. Field renaming is deterministic and total;
	// item totals are recomputed, never trusted from the source.
	TransformWebhook(ctx context.Context, payload map[string]any) (NormalizedOrder, error)

	// UpdateOrderStatus notifies the platform of a status change.
	// Simulated acknowledgement in the mock adapters.
	UpdateOrderStatus(ctx context.Context, platformOrderID string, status order.Status) error
}

// AdapterRegistry provides adapter lookup by platform key
type AdapterRegistry interface {
	// Get returns the adapter for the platform, or ErrUnsupportedPlatform
	Get(platform order.Platform) (PlatformAdapter, error)

	// List returns all registered adapters in a stable order
	List() []PlatformAdapter

	// Platforms returns the registered platform keys in a stable order
	Platforms() []order.Platform
}
