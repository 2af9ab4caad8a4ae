package handler

import (
	"net/http"

	"linkboard/backend/common"
	"linkboard/backend/library/health"

	"github.com/gin-gonic/gin"
)

type StatusHandler struct {
	checker *health.Checker
}

// NewStatusHandler reports dependency health from checker when it is not nil.
func NewStatusHandler(checker *health.Checker) *StatusHandler {
	return &StatusHandler{checker: checker}
}

func (h *StatusHandler) GetStatus(c *gin.Context) {
	data := gin.H{
		"version":            common.Version,
		"start_time":         common.StartTime,
		"redis_enabled":      common.RedisEnabled,
		"feed_cache_ttl":     common.FeedCacheTTL.String(),
		"graphql_playground": common.GraphQLPlayground,
	}
	if h.checker == nil {
		common.RespSuccess(c, data)
		return
	}

	data["checks"] = h.checker.Results()
	if !h.checker.Healthy() {
		c.JSON(http.StatusServiceUnavailable, common.APIResponse{
			Success: false,
			Message: "dependency check failing",
			Data:    data,
		})
		return
	}
	common.RespSuccess(c, data)
}
