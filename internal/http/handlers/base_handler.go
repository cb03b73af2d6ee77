// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wayfarer/internal/guard"
	"wayfarer/internal/pipeline"
)

type errorResponse struct {
	Error    string `json:"error"`
	RawReply string `json:"raw_reply,omitempty"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writePipelineError maps pipeline failures to statuses. A policy block is
// the caller's fault (422); an unparsable model reply is an upstream
// failure (502) and the raw reply rides along for debugging.
func writePipelineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, guard.ErrBlocked):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, pipeline.ErrNoUsablePlan):
		resp := errorResponse{Error: err.Error()}
		var npe *pipeline.NoPlanError
		if errors.As(err, &npe) {
			resp.RawReply = npe.LastReply()
		}
		writeJSON(c, http.StatusBadGateway, resp)
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
