// README: Itinerary planning handler.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wayfarer/internal/pipeline"
)

type PlanHandler struct {
	planner *pipeline.Itinerary
	timeout time.Duration
}

func NewPlanHandler(planner *pipeline.Itinerary, timeout time.Duration) *PlanHandler {
	return &PlanHandler{planner: planner, timeout: timeout}
}

// Plan handles POST /api/plan.
func (h *PlanHandler) Plan(c *gin.Context) {
	var req pipeline.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.City == "" || len(req.Members) == 0 {
		writeError(c, http.StatusBadRequest, "missing city or members")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	res, err := h.planner.Run(ctx, req)
	if err != nil {
		writePipelineError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}
