package models

import (
	"encoding/json"
	"time"

	"github.com/orderdesk/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate. Nested value
// objects (customer, items, shipping info, status history, platform data)
// are serialized into JSON columns; the natural external key
// (platform, platform_order_id) carries a unique index so ingestion upserts
// cannot create duplicates.
type OrderModel struct {
	BaseModel
	Platform          order.Platform   `gorm:"type:varchar(20);not null;uniqueIndex:idx_orders_platform_order,priority:1;index"`
	PlatformOrderID   string           `gorm:"type:varchar(100);not null;uniqueIndex:idx_orders_platform_order,priority:2"`
	OrderNumber       string           `gorm:"type:varchar(120);not null;uniqueIndex:idx_orders_number"`
	OrderDate         time.Time        `gorm:"not null;index"`
	Status            order.Status     `gorm:"type:varchar(20);not null;default:'pending';index"`
	CustomerName      string           `gorm:"type:varchar(200);index"`
	CustomerEmail     string           `gorm:"type:varchar(255);index"`
	CustomerJSON      string           `gorm:"type:jsonb;column:customer"`
	ItemsJSON         string           `gorm:"type:jsonb;column:items"`
	Subtotal          decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Tax               decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	ShippingFee       decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Discount          decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Total             decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Currency          string           `gorm:"type:varchar(10);not null;default:'INR'"`
	ShippingInfoJSON  string           `gorm:"type:jsonb;column:shipping_info"`
	PlatformDataJSON  string           `gorm:"type:jsonb;column:platform_data"`
	StatusHistoryJSON string           `gorm:"type:jsonb;column:status_history"`
	SyncStatus        order.SyncStatus `gorm:"type:varchar(20);not null;default:'synced'"`
	LastSynced        *time.Time
	TagsJSON          string `gorm:"type:jsonb;column:tags"`
	Notes             string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order aggregate.
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		BaseEntity:      m.BaseModel.ToDomain(),
		Platform:        m.Platform,
		PlatformOrderID: m.PlatformOrderID,
		OrderNumber:     m.OrderNumber,
		OrderDate:       m.OrderDate,
		Status:          m.Status,
		Subtotal:        m.Subtotal,
		Tax:             m.Tax,
		ShippingFee:     m.ShippingFee,
		Discount:        m.Discount,
		Total:           m.Total,
		Currency:        m.Currency,
		SyncStatus:      m.SyncStatus,
		LastSynced:      m.LastSynced,
		Notes:           m.Notes,
	}

	if m.CustomerJSON != "" {
		_ = json.Unmarshal([]byte(m.CustomerJSON), &o.Customer)
	}
	if m.ItemsJSON != "" {
		_ = json.Unmarshal([]byte(m.ItemsJSON), &o.Items)
	}
	if m.ShippingInfoJSON != "" {
		_ = json.Unmarshal([]byte(m.ShippingInfoJSON), &o.ShippingInfo)
	}
	if m.PlatformDataJSON != "" {
		_ = json.Unmarshal([]byte(m.PlatformDataJSON), &o.PlatformData)
	}
	if m.StatusHistoryJSON != "" {
		_ = json.Unmarshal([]byte(m.StatusHistoryJSON), &o.StatusHistory)
	}
	if m.TagsJSON != "" {
		_ = json.Unmarshal([]byte(m.TagsJSON), &o.Tags)
	}

	return o
}

// FromDomain populates the persistence model from a domain Order aggregate.
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.Platform = o.Platform
	m.PlatformOrderID = o.PlatformOrderID
	m.OrderNumber = o.OrderNumber
	m.OrderDate = o.OrderDate
	m.Status = o.Status
	m.Subtotal = o.Subtotal
	m.Tax = o.Tax
	m.ShippingFee = o.ShippingFee
	m.Discount = o.Discount
	m.Total = o.Total
	m.Currency = o.Currency
	m.SyncStatus = o.SyncStatus
	m.LastSynced = o.LastSynced
	m.Notes = o.Notes

	// Denormalized for search and analytics; the JSON column stays canonical.
	m.CustomerName = o.Customer.Name
	m.CustomerEmail = o.Customer.Email
	m.CustomerJSON = marshalJSON(o.Customer, "{}")
	m.ItemsJSON = marshalJSON(o.Items, "[]")
	m.ShippingInfoJSON = marshalJSON(o.ShippingInfo, "{}")
	m.StatusHistoryJSON = marshalJSON(o.StatusHistory, "[]")
	if len(o.PlatformData) > 0 {
		m.PlatformDataJSON = marshalJSON(o.PlatformData, "{}")
	} else {
		m.PlatformDataJSON = "{}"
	}
	if len(o.Tags) > 0 {
		m.TagsJSON = marshalJSON(o.Tags, "[]")
	} else {
		m.TagsJSON = "[]"
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

func marshalJSON(v any, fallback string) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fallback
	}
	return string(data)
}
