package order

import (
	"fmt"
	"time"

	"github.com/orderdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when the source payload carries no currency
const DefaultCurrency = "INR"

// SyncActor is recorded in the status history for platform-driven changes
const SyncActor = "platform-sync"

// Address is the customer's denormalized postal address
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Country string `json:"country"`
}

// Customer holds denormalized buyer details. There is no separate customer
// entity; analytics identify customers ad hoc by email.
type Customer struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Address Address `json:"address"`
}

// Item is a single order line
type Item struct {
	ProductID  string          `json:"product_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	SKU        string          `json:"sku"`
	Category   string          `json:"category"`
}

// NewItem creates an order line. TotalPrice is always recomputed from
// quantity and unit price, never trusted from the source payload.
func NewItem(productID, name string, quantity int, unitPrice decimal.Decimal, sku, category string) (Item, error) {
	if name == "" {
		return Item{}, shared.NewDomainError("INVALID_ITEM", "Item name cannot be empty")
	}
	if quantity < 1 {
		return Item{}, shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be at least 1")
	}
	if unitPrice.IsNegative() {
		return Item{}, shared.NewDomainError("INVALID_PRICE", "Item unit price cannot be negative")
	}
	return Item{
		ProductID:  productID,
		Name:       name,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		SKU:        sku,
		Category:   category,
	}, nil
}

// ShippingInfo holds fulfillment details. It is deliberately distinct from
// the ShippingFee financial field.
type ShippingInfo struct {
	Method            string     `json:"method"`
	TrackingNumber    string     `json:"tracking_number"`
	Carrier           string     `json:"carrier"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
	ActualDelivery    *time.Time `json:"actual_delivery,omitempty"`
}

// StatusChange is one entry in the append-only status history
type StatusChange struct {
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
	Notes     string    `json:"notes,omitempty"`
}

// Order is the canonical order aggregate. Orders are created on first
// ingestion (scheduled fetch or webhook) or by an admin, and mutated on
// status change; every status change appends to StatusHistory.
type Order struct {
	shared.BaseEntity
	Platform        Platform
	PlatformOrderID string
	OrderNumber     string
	OrderDate       time.Time
	Status          Status
	Customer        Customer
	Items           []Item
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	ShippingFee     decimal.Decimal
	Discount        decimal.Decimal
	Total           decimal.Decimal
	Currency        string
	ShippingInfo    ShippingInfo
	PlatformData    map[string]any
	StatusHistory   []StatusChange
	SyncStatus      SyncStatus
	LastSynced      *time.Time
	Tags            []string
	Notes           string
}

// NewOrder creates an order with its initial status recorded as the first
// status-history entry.
func NewOrder(platform Platform, platformOrderID string, orderDate time.Time, status Status, actor string) (*Order, error) {
	if !platform.IsValid() {
		return nil, shared.ErrUnsupportedPlatform
	}
	if platformOrderID == "" {
		return nil, shared.NewDomainError("INVALID_PLATFORM_ORDER_ID", "Platform order ID cannot be empty")
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", status))
	}
	if orderDate.IsZero() {
		orderDate = time.Now().UTC()
	}

	o := &Order{
		BaseEntity:      shared.NewBaseEntity(),
		Platform:        platform,
		PlatformOrderID: platformOrderID,
		OrderNumber:     NumberFor(platform, platformOrderID),
		OrderDate:       orderDate,
		Status:          status,
		Currency:        DefaultCurrency,
		SyncStatus:      SyncStatusSynced,
	}
	o.StatusHistory = []StatusChange{{
		Status:    status,
		Timestamp: o.CreatedAt,
		Actor:     actor,
		Notes:     "Order created",
	}}
	return o, nil
}

// NumberFor derives the globally unique order number from the platform's
// prefix and the platform order ID, e.g. "AMZ-2024-001" for amazon order
// "2024-001". IDs already carrying the prefix are kept as-is.
func NumberFor(platform Platform, platformOrderID string) string {
	prefix := platform.NumberPrefix() + "-"
	if len(platformOrderID) >= len(prefix) && platformOrderID[:len(prefix)] == prefix {
		return platformOrderID
	}
	return prefix + platformOrderID
}

// SetItems replaces the order lines, recomputing each line total
func (o *Order) SetItems(items []Item) error {
	if len(items) == 0 {
		return shared.NewDomainError("INVALID_ITEMS", "Order must have at least one item")
	}
	normalized := make([]Item, 0, len(items))
	for _, it := range items {
		item, err := NewItem(it.ProductID, it.Name, it.Quantity, it.UnitPrice, it.SKU, it.Category)
		if err != nil {
			return err
		}
		normalized = append(normalized, item)
	}
	o.Items = normalized
	o.Touch()
	return nil
}

// SetFinancials sets the monetary fields. All amounts must be non-negative
// and total must equal subtotal + tax + shipping fee - discount.
func (o *Order) SetFinancials(subtotal, tax, shippingFee, discount, total decimal.Decimal) error {
	for _, amt := range []decimal.Decimal{subtotal, tax, shippingFee, discount, total} {
		if amt.IsNegative() {
			return shared.NewDomainError("INVALID_AMOUNT", "Order amounts cannot be negative")
		}
	}
	expected := subtotal.Add(tax).Add(shippingFee).Sub(discount)
	if !total.Equal(expected) {
		return shared.NewDomainError("INVALID_TOTAL",
			fmt.Sprintf("Order total %s does not equal subtotal + tax + shipping - discount = %s", total, expected))
	}
	o.Subtotal = subtotal
	o.Tax = tax
	o.ShippingFee = shippingFee
	o.Discount = discount
	o.Total = total
	o.Touch()
	return nil
}

// ChangeStatus applies an admin-driven status change, enforcing the
// lifecycle transition rules and appending to the status history.
func (o *Order) ChangeStatus(target Status, actor, notes string) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", target))
	}
	if target == o.Status {
		return shared.NewDomainError("INVALID_STATE", "Order is already in the requested status")
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot transition order from %s to %s", o.Status, target))
	}
	o.applyStatus(target, actor, notes)
	return nil
}

// ApplySyncedStatus applies a platform-driven status change. The platform is
// authoritative for orders it owns, so any valid status is accepted; the
// history entry is appended only when the status actually changed.
func (o *Order) ApplySyncedStatus(target Status, notes string) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", target))
	}
	if target == o.Status {
		return nil
	}
	o.applyStatus(target, SyncActor, notes)
	return nil
}

func (o *Order) applyStatus(target Status, actor, notes string) {
	now := time.Now().UTC()
	o.Status = target
	o.StatusHistory = append(o.StatusHistory, StatusChange{
		Status:    target,
		Timestamp: now,
		Actor:     actor,
		Notes:     notes,
	})
	o.UpdatedAt = now
}

// MarkSynced records a successful platform sync
func (o *Order) MarkSynced() {
	now := time.Now().UTC()
	o.SyncStatus = SyncStatusSynced
	o.LastSynced = &now
	o.UpdatedAt = now
}

// MarkSyncFailed records a failed platform sync
func (o *Order) MarkSyncFailed() {
	o.SyncStatus = SyncStatusFailed
	o.Touch()
}

// CurrentStatus returns the status of the latest history entry
func (o *Order) CurrentStatus() Status {
	if len(o.StatusHistory) == 0 {
		return o.Status
	}
	return o.StatusHistory[len(o.StatusHistory)-1].Status
}

// Validate checks the aggregate invariants that ingestion must preserve
func (o *Order) Validate() error {
	if !o.Platform.IsValid() {
		return shared.ErrUnsupportedPlatform
	}
	if o.PlatformOrderID == "" {
		return shared.NewDomainError("INVALID_PLATFORM_ORDER_ID", "Platform order ID cannot be empty")
	}
	if o.OrderNumber == "" {
		return shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if !o.Status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", o.Status))
	}
	if len(o.StatusHistory) == 0 {
		return shared.NewDomainError("INVALID_STATUS_HISTORY", "Status history cannot be empty")
	}
	if last := o.StatusHistory[len(o.StatusHistory)-1].Status; last != o.Status {
		return shared.NewDomainError("INVALID_STATUS_HISTORY",
			fmt.Sprintf("Last history entry %s does not match current status %s", last, o.Status))
	}
	for _, it := range o.Items {
		expected := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		if !it.TotalPrice.Equal(expected) {
			return shared.NewDomainError("INVALID_ITEM_TOTAL",
				fmt.Sprintf("Item %q total %s does not equal unit price x quantity", it.Name, it.TotalPrice))
		}
	}
	return nil
}
