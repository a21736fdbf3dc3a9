package handler

import (
	"github.com/gin-gonic/gin"

	orderapp "github.com/orderdesk/backend/internal/application/order"
	"github.com/orderdesk/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles order-related API endpoints
type OrderHandler struct {
	BaseHandler
	orders *orderapp.Service
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders *orderapp.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Create creates an order entered by back-office staff. Platform orders
// arrive through ingestion, so this path mostly serves the organic
// channel and manual corrections.
func (h *OrderHandler) Create(c *gin.Context) {
	var req orderapp.CreateOrderRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	resp, err := h.orders.Create(c.Request.Context(), req, actorEmail(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// List returns a filtered, paginated order listing
func (h *OrderHandler) List(c *gin.Context) {
	var filter orderapp.ListOrdersFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	orders, total, err := h.orders.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	h.SuccessWithMeta(c, orders, total, page, limit)
}

// GetByID returns one order with its full status history
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	resp, err := h.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByOrderNumber looks an order up by its human-facing number
func (h *OrderHandler) GetByOrderNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Order number is required")
		return
	}

	resp, err := h.orders.GetByOrderNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update applies a partial update to an order's editable fields
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req orderapp.UpdateOrderRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	resp, err := h.orders.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ChangeStatus moves an order through its lifecycle. The acting user is
// taken from the JWT and recorded in the status history.
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req orderapp.ChangeStatusRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	resp, err := h.orders.ChangeStatus(c.Request.Context(), id, req, actorEmail(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes an order
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.orders.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
