// README: Attraction ranking handler.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wayfarer/internal/pipeline"
)

type RankHandler struct {
	ranker  *pipeline.Ranker
	timeout time.Duration
}

func NewRankHandler(ranker *pipeline.Ranker, timeout time.Duration) *RankHandler {
	return &RankHandler{ranker: ranker, timeout: timeout}
}

// Rank handles POST /api/rank.
func (h *RankHandler) Rank(c *gin.Context) {
	var req pipeline.RankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Destination == "" {
		writeError(c, http.StatusBadRequest, "missing destination")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	res, err := h.ranker.Run(ctx, req)
	if err != nil {
		writePipelineError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}
