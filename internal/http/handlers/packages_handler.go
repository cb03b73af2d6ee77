// README: Flight+hotel package handler.
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"wayfarer/internal/pipeline"
)

type PackagesHandler struct {
	packager *pipeline.Packager
	timeout  time.Duration
}

func NewPackagesHandler(packager *pipeline.Packager, timeout time.Duration) *PackagesHandler {
	return &PackagesHandler{packager: packager, timeout: timeout}
}

// Search handles POST /api/packages.
func (h *PackagesHandler) Search(c *gin.Context) {
	var req pipeline.PackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		writeError(c, http.StatusBadRequest, "missing text")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	res, err := h.packager.Run(ctx, req)
	if err != nil {
		writePipelineError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}
