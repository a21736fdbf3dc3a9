package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/order"
	"github.com/orderdesk/backend/internal/domain/shared"
)

// Service handles order-related business operations
type Service struct {
	orders order.Repository
}

// NewService creates a new order Service
func NewService(orders order.Repository) *Service {
	return &Service{
		orders: orders,
	}
}

// Create creates an order by hand. The actor is recorded as the author of
// the initial status-history entry.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest, actor string) (*OrderResponse, error) {
	platform := order.Platform(req.Platform)

	// Check the natural key before constructing the aggregate
	existing, err := s.orders.FindByPlatformOrderID(ctx, platform, req.PlatformOrderID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Order with this platform order ID already exists")
	}

	status := order.StatusPending
	if req.Status != "" {
		status = order.Status(req.Status)
	}
	var orderDate time.Time
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}

	o, err := order.NewOrder(platform, req.PlatformOrderID, orderDate, status, actor)
	if err != nil {
		return nil, err
	}

	o.Customer = customerFromRequest(req.Customer)

	items, err := itemsFromRequests(req.Items)
	if err != nil {
		return nil, err
	}
	if err := o.SetItems(items); err != nil {
		return nil, err
	}
	if err := o.SetFinancials(req.Subtotal, req.Tax, req.ShippingFee, req.Discount, req.Total); err != nil {
		return nil, err
	}
	if req.Currency != "" {
		o.Currency = req.Currency
	}
	if req.ShippingInfo != nil {
		o.ShippingInfo = shippingInfoFromRequest(*req.ShippingInfo)
	}
	o.Notes = req.Notes
	o.Tags = req.Tags

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// GetByID retrieves an order by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// GetByOrderNumber retrieves an order by its globally unique order number
func (s *Service) GetByOrderNumber(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	o, err := s.orders.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// List retrieves orders matching the filter with the total match count
func (s *Service) List(ctx context.Context, filter ListOrdersFilter) ([]OrderSummaryResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	domainFilter := order.ListFilter{
		Platform:  order.Platform(filter.Platform),
		Status:    order.Status(filter.Status),
		DateFrom:  filter.DateFrom,
		DateTo:    filter.DateTo,
		Search:    filter.Search,
		Page:      filter.Page,
		Limit:     filter.Limit,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}

	orders, total, err := s.orders.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToOrderSummaryResponses(orders), total, nil
}

// Update updates an order's mutable fields
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Customer != nil {
		o.Customer = customerFromRequest(*req.Customer)
	}
	if req.ShippingInfo != nil {
		o.ShippingInfo = shippingInfoFromRequest(*req.ShippingInfo)
	}
	if req.Notes != nil {
		o.Notes = *req.Notes
	}
	if req.Tags != nil {
		o.Tags = *req.Tags
	}
	o.Touch()

	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// ChangeStatus applies an admin-driven status change, enforcing the
// lifecycle transition rules and appending to the status history.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, req ChangeStatusRequest, actor string) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := o.ChangeStatus(order.Status(req.Status), actor, req.Notes); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// Delete removes an order
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.orders.Delete(ctx, id)
}

func customerFromRequest(req CustomerRequest) order.Customer {
	return order.Customer{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Address: order.Address{
			Street:  req.Address.Street,
			City:    req.Address.City,
			State:   req.Address.State,
			Pincode: req.Address.Pincode,
			Country: req.Address.Country,
		},
	}
}

func shippingInfoFromRequest(req ShippingInfoRequest) order.ShippingInfo {
	return order.ShippingInfo{
		Method:            req.Method,
		TrackingNumber:    req.TrackingNumber,
		Carrier:           req.Carrier,
		EstimatedDelivery: req.EstimatedDelivery,
		ActualDelivery:    req.ActualDelivery,
	}
}

func itemsFromRequests(reqs []ItemRequest) ([]order.Item, error) {
	items := make([]order.Item, 0, len(reqs))
	for _, r := range reqs {
		item, err := order.NewItem(r.ProductID, r.Name, r.Quantity, r.UnitPrice, r.SKU, r.Category)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
