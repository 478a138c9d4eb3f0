package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/yaml.v3"

	"github.com/gcbaptista/go-query-planner/config"
	"github.com/gcbaptista/go-query-planner/services"
)

// API holds dependencies for API handlers, primarily the query planner.
type API struct {
	planner services.QueryPlanner
	log     *slog.Logger
}

// NewAPI creates a new API handler structure.
func NewAPI(planner services.QueryPlanner, log *slog.Logger) *API {
	if log == nil {
		log = slog.Default()
	}
	return &API{planner: planner, log: log}
}

// NewRouter builds a gin engine with the standard middleware chain and all routes.
func NewRouter(planner services.QueryPlanner, settings config.PlannerSettings, log *slog.Logger) *gin.Engine {
	if log == nil {
		log = slog.Default()
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestIDMiddleware(),
		RequestLoggerMiddleware(log.With("component", "http")),
		CORSMiddleware(),
		RequestSizeLimitMiddleware(settings.MaxRequestBytes),
	)
	SetupRoutes(router, NewAPI(planner, log))
	return router
}

// SetupRoutes defines all the API routes for the query planner.
func SetupRoutes(router *gin.Engine, apiHandler *API) {
	router.GET("/health", apiHandler.HealthCheckHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Planning
	router.POST("/_plan", apiHandler.PlanHandler)

	// Filter cache management
	cacheRoutes := router.Group("/cache")
	{
		cacheRoutes.GET("/stats", apiHandler.CacheStatsHandler) // Cache counters
		cacheRoutes.DELETE("", apiHandler.ClearCacheHandler)    // Drop every cached filter
	}
}

// PlanHandler builds the plan for a query specification.
// Request Body: {"query": {...}}
// Query Params: format=json|yaml
func (api *API) PlanHandler(c *gin.Context) {
	format, formatResult := ValidateFormat(c.Query("format"))
	if formatResult.HasErrors() {
		SendStructuredValidationError(c, formatResult)
		return
	}

	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if result := ValidatePlanRequest(&req); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	result, err := api.planner.Plan(req.Query)
	if err != nil {
		SendPlanError(c, err)
		return
	}

	if format == FormatYAML {
		out, err := yaml.Marshal(result)
		if err != nil {
			SendInternalError(c, "yaml rendering", err)
			return
		}
		c.Data(http.StatusOK, "application/yaml; charset=utf-8", out)
		return
	}
	c.JSON(http.StatusOK, result)
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "go-query-planner",
		"timestamp": fmt.Sprintf("%d", time.Now().Unix()),
	})
}
