package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	orderapp "github.com/orderdesk/backend/internal/application/order"
	"github.com/orderdesk/backend/internal/domain/order"
	"github.com/orderdesk/backend/internal/infrastructure/scheduler"
	"github.com/orderdesk/backend/internal/interfaces/http/dto"
)

// WebhookHandler receives push notifications from the sales platforms
type WebhookHandler struct {
	BaseHandler
	scheduler *scheduler.IngestionScheduler
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(s *scheduler.IngestionScheduler) *WebhookHandler {
	return &WebhookHandler{scheduler: s}
}

// WebhookResponse reports what the webhook did to the order store
type WebhookResponse struct {
	Action string                 `json:"action"`
	Order  orderapp.OrderResponse `json:"order"`
}

// Receive ingests one platform webhook. The payload shape is
// platform-specific; the adapter validates and normalizes it.
func (h *WebhookHandler) Receive(c *gin.Context) {
	platform := order.Platform(c.Param("platform"))
	if !platform.IsValid() {
		h.ErrorWithCode(c, dto.ErrCodeUnsupportedPlatform,
			"Unsupported platform: "+c.Param("platform"))
		return
	}

	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.BadRequest(c, "Invalid webhook payload: "+err.Error())
		return
	}

	result, err := h.scheduler.ProcessWebhook(c.Request.Context(), platform, payload)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	status := http.StatusOK
	if result.Action == order.UpsertCreated {
		status = http.StatusCreated
	}
	c.JSON(status, dto.NewSuccessResponse(WebhookResponse{
		Action: string(result.Action),
		Order:  orderapp.ToOrderResponse(result.Order),
	}))
}
