// README: API gateway; registers HTTP routes and delegates to pipelines.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wayfarer/internal/http/handlers"
	"wayfarer/internal/http/middleware"
	"wayfarer/internal/pipeline"
)

type RouterDeps struct {
	Planner  *pipeline.Itinerary
	Ranker   *pipeline.Ranker
	Safety   *pipeline.Safety
	Packager *pipeline.Packager
	Timeout  time.Duration
}

func NewRouter(deps RouterDeps) http.Handler {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	planHandler := handlers.NewPlanHandler(deps.Planner, deps.Timeout)
	rankHandler := handlers.NewRankHandler(deps.Ranker, deps.Timeout)
	safetyHandler := handlers.NewSafetyHandler(deps.Safety, deps.Timeout)
	packagesHandler := handlers.NewPackagesHandler(deps.Packager, deps.Timeout)

	api := r.Group("/api")
	api.POST("/plan", planHandler.Plan)
	api.POST("/rank", rankHandler.Rank)
	api.POST("/safety", safetyHandler.Check)
	api.POST("/packages", packagesHandler.Search)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
