package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Order DTOs
// =============================================================================

// AddressRequest carries a postal address in requests
type AddressRequest struct {
	Street  string `json:"street" binding:"max=300"`
	City    string `json:"city" binding:"max=100"`
	State   string `json:"state" binding:"max=100"`
	Pincode string `json:"pincode" binding:"max=20"`
	Country string `json:"country" binding:"max=100"`
}

// CustomerRequest carries buyer details in requests
type CustomerRequest struct {
	Name    string         `json:"name" binding:"required,min=1,max=200"`
	Email   string         `json:"email" binding:"omitempty,email,max=255"`
	Phone   string         `json:"phone" binding:"max=50"`
	Address AddressRequest `json:"address"`
}

// ItemRequest carries one order line in requests
type ItemRequest struct {
	ProductID string          `json:"product_id" binding:"max=100"`
	Name      string          `json:"name" binding:"required,min=1,max=300"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	SKU       string          `json:"sku" binding:"max=100"`
	Category  string          `json:"category" binding:"max=100"`
}

// ShippingInfoRequest carries fulfillment details in requests
type ShippingInfoRequest struct {
	Method            string     `json:"method" binding:"max=100"`
	TrackingNumber    string     `json:"tracking_number" binding:"max=100"`
	Carrier           string     `json:"carrier" binding:"max=100"`
	EstimatedDelivery *time.Time `json:"estimated_delivery"`
	ActualDelivery    *time.Time `json:"actual_delivery"`
}

// CreateOrderRequest represents a request to create an order by hand.
// Most orders arrive through ingestion; this path exists for the organic
// channel and manual corrections.
type CreateOrderRequest struct {
	Platform        string               `json:"platform" binding:"required,oneof=amazon blinkit flipkart swiggy organic"`
	PlatformOrderID string               `json:"platform_order_id" binding:"required,min=1,max=100"`
	OrderDate       *time.Time           `json:"order_date"`
	Status          string               `json:"status" binding:"omitempty,oneof=pending confirmed processing dispatched delivered cancelled returned"`
	Customer        CustomerRequest      `json:"customer" binding:"required"`
	Items           []ItemRequest        `json:"items" binding:"required,min=1,dive"`
	Subtotal        decimal.Decimal      `json:"subtotal"`
	Tax             decimal.Decimal      `json:"tax"`
	ShippingFee     decimal.Decimal      `json:"shipping_fee"`
	Discount        decimal.Decimal      `json:"discount"`
	Total           decimal.Decimal      `json:"total"`
	Currency        string               `json:"currency" binding:"max=10"`
	ShippingInfo    *ShippingInfoRequest `json:"shipping_info"`
	Notes           string               `json:"notes"`
	Tags            []string             `json:"tags"`
}

// UpdateOrderRequest represents a request to update an order's mutable
// fields. Status changes go through the dedicated status endpoint.
type UpdateOrderRequest struct {
	Customer     *CustomerRequest     `json:"customer"`
	ShippingInfo *ShippingInfoRequest `json:"shipping_info"`
	Notes        *string              `json:"notes"`
	Tags         *[]string            `json:"tags"`
}

// ChangeStatusRequest represents an admin-driven status change
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed processing dispatched delivered cancelled returned"`
	Notes  string `json:"notes" binding:"max=500"`
}

// ListOrdersFilter narrows and pages order listings
type ListOrdersFilter struct {
	Platform  string     `form:"platform" binding:"omitempty,oneof=amazon blinkit flipkart swiggy organic"`
	Status    string     `form:"status" binding:"omitempty,oneof=pending confirmed processing dispatched delivered cancelled returned"`
	DateFrom  *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo    *time.Time `form:"date_to" time_format:"2006-01-02"`
	Search    string     `form:"search"`
	Page      int        `form:"page"`
	Limit     int        `form:"limit"`
	SortBy    string     `form:"sort_by"`
	SortOrder string     `form:"sort_order"`
}

// StatusChangeResponse is one entry of the status history in responses
type StatusChangeResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
	Notes     string    `json:"notes,omitempty"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID              `json:"id"`
	Platform        string                 `json:"platform"`
	PlatformOrderID string                 `json:"platform_order_id"`
	OrderNumber     string                 `json:"order_number"`
	OrderDate       time.Time              `json:"order_date"`
	Status          string                 `json:"status"`
	Customer        order.Customer         `json:"customer"`
	Items           []order.Item           `json:"items"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	Tax             decimal.Decimal        `json:"tax"`
	ShippingFee     decimal.Decimal        `json:"shipping_fee"`
	Discount        decimal.Decimal        `json:"discount"`
	Total           decimal.Decimal        `json:"total"`
	Currency        string                 `json:"currency"`
	ShippingInfo    order.ShippingInfo     `json:"shipping_info"`
	PlatformData    map[string]any         `json:"platform_data,omitempty"`
	StatusHistory   []StatusChangeResponse `json:"status_history"`
	SyncStatus      string                 `json:"sync_status"`
	LastSynced      *time.Time             `json:"last_synced,omitempty"`
	Tags            []string               `json:"tags,omitempty"`
	Notes           string                 `json:"notes,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// OrderSummaryResponse is the compact order shape used in listings and
// analytics panels
type OrderSummaryResponse struct {
	ID            uuid.UUID       `json:"id"`
	Platform      string          `json:"platform"`
	OrderNumber   string          `json:"order_number"`
	OrderDate     time.Time       `json:"order_date"`
	Status        string          `json:"status"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	ItemCount     int             `json:"item_count"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToOrderResponse converts a domain order to its response form
func ToOrderResponse(o *order.Order) OrderResponse {
	history := make([]StatusChangeResponse, 0, len(o.StatusHistory))
	for _, sc := range o.StatusHistory {
		history = append(history, StatusChangeResponse{
			Status:    sc.Status.String(),
			Timestamp: sc.Timestamp,
			Actor:     sc.Actor,
			Notes:     sc.Notes,
		})
	}
	return OrderResponse{
		ID:              o.ID,
		Platform:        o.Platform.String(),
		PlatformOrderID: o.PlatformOrderID,
		OrderNumber:     o.OrderNumber,
		OrderDate:       o.OrderDate,
		Status:          o.Status.String(),
		Customer:        o.Customer,
		Items:           o.Items,
		Subtotal:        o.Subtotal,
		Tax:             o.Tax,
		ShippingFee:     o.ShippingFee,
		Discount:        o.Discount,
		Total:           o.Total,
		Currency:        o.Currency,
		ShippingInfo:    o.ShippingInfo,
		PlatformData:    o.PlatformData,
		StatusHistory:   history,
		SyncStatus:      string(o.SyncStatus),
		LastSynced:      o.LastSynced,
		Tags:            o.Tags,
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// ToOrderSummaryResponse converts a domain order to its listing form
func ToOrderSummaryResponse(o *order.Order) OrderSummaryResponse {
	return OrderSummaryResponse{
		ID:            o.ID,
		Platform:      o.Platform.String(),
		OrderNumber:   o.OrderNumber,
		OrderDate:     o.OrderDate,
		Status:        o.Status.String(),
		CustomerName:  o.Customer.Name,
		CustomerEmail: o.Customer.Email,
		ItemCount:     len(o.Items),
		Total:         o.Total,
		Currency:      o.Currency,
		CreatedAt:     o.CreatedAt,
	}
}

// ToOrderSummaryResponses converts a slice of domain orders
func ToOrderSummaryResponses(orders []order.Order) []OrderSummaryResponse {
	out := make([]OrderSummaryResponse, 0, len(orders))
	for i := range orders {
		out = append(out, ToOrderSummaryResponse(&orders[i]))
	}
	return out
}

// =============================================================================
// Analytics DTOs
// =============================================================================

// DailyTrendResponse is one day of the order/revenue trend series
type DailyTrendResponse struct {
	Date    string          `json:"date"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// DashboardResponse aggregates the analytics dashboard payload
type DashboardResponse struct {
	TotalOrders      int64                  `json:"total_orders"`
	TotalRevenue     decimal.Decimal        `json:"total_revenue"`
	AvgOrderValue    decimal.Decimal        `json:"avg_order_value"`
	ActiveCustomers  int64                  `json:"active_customers"`
	OrdersByStatus   map[string]int64       `json:"orders_by_status"`
	OrdersByPlatform map[string]int64       `json:"orders_by_platform"`
	RecentOrders     []OrderSummaryResponse `json:"recent_orders"`
	DailyTrends      []DailyTrendResponse   `json:"daily_trends"`
}
