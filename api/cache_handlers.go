package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CacheStatsHandler returns the filter cache counters.
func (api *API) CacheStatsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.planner.CacheStats())
}

// ClearCacheHandler drops every cached filter. Plans already handed out keep
// the filters they hold.
func (api *API) ClearCacheHandler(c *gin.Context) {
	api.planner.ClearCache()
	api.log.Info("filter cache cleared over http", "request_id", c.GetString(requestIDKey))
	c.JSON(http.StatusOK, gin.H{"message": "Filter cache cleared"})
}
