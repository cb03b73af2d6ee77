// README: Scam-check / safety report handler.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wayfarer/internal/modules/safety"
	"wayfarer/internal/pipeline"
)

type SafetyHandler struct {
	safety  *pipeline.Safety
	timeout time.Duration
}

func NewSafetyHandler(p *pipeline.Safety, timeout time.Duration) *SafetyHandler {
	return &SafetyHandler{safety: p, timeout: timeout}
}

// Check handles POST /api/safety.
func (h *SafetyHandler) Check(c *gin.Context) {
	var payload safety.PlannerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if payload.City == "" || len(payload.Items) == 0 {
		writeError(c, http.StatusBadRequest, "missing city or items")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	report, err := h.safety.Run(ctx, payload)
	if err != nil {
		writePipelineError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, report)
}
