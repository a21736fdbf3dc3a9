package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/orderdesk/backend/internal/domain/order"
	"github.com/orderdesk/backend/internal/infrastructure/scheduler"
)

// IngestionHandler exposes manual sweep triggering and scheduler
// introspection
type IngestionHandler struct {
	BaseHandler
	scheduler *scheduler.IngestionScheduler
}

// NewIngestionHandler creates a new IngestionHandler
func NewIngestionHandler(s *scheduler.IngestionScheduler) *IngestionHandler {
	return &IngestionHandler{scheduler: s}
}

// TriggerRequest optionally narrows a manual sweep to one platform
type TriggerRequest struct {
	Platform string `json:"platform" binding:"omitempty,oneof=amazon blinkit flipkart swiggy organic"`
}

// Trigger runs a sweep immediately and returns its outcome. Without a
// platform in the body every registered platform is swept.
func (h *IngestionHandler) Trigger(c *gin.Context) {
	var req TriggerRequest
	if c.Request.ContentLength > 0 {
		if !h.bindAndValidate(c, &req) {
			return
		}
	}

	var platform *order.Platform
	if req.Platform != "" {
		p := order.Platform(req.Platform)
		platform = &p
	}

	result, err := h.scheduler.TriggerManualSweep(c.Request.Context(), platform)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Status returns the scheduler's current state
func (h *IngestionHandler) Status(c *gin.Context) {
	h.Success(c, h.scheduler.GetStatus())
}
