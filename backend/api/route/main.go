package route

import (
	"net/http"
	"strings"

	"linkboard/backend/api/middleware"
	"linkboard/backend/common"
	"linkboard/backend/library/health"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
)

// Options carries what the routes need from the running process.
type Options struct {
	Schema *graphql.Schema
	Users  UserFinder
	Health *health.Checker
}

func SetRouter(route *gin.Engine, opts *Options) {
	route.Use(gin.Recovery())
	route.Use(middleware.RequestID())
	route.Use(middleware.RequestLogger())
	route.Use(middleware.CORS())
	route.Use(middleware.LangMiddleware())
	// Apply gzip middleware to the entire application
	route.Use(middleware.GzipDecodeMiddleware()) // Decode gzipped requests
	route.Use(middleware.GzipEncodeMiddleware()) // Compress responses with gzip

	SetApiRouter(route, opts)
	SetGraphQLRouter(route, opts)

	route.NoRoute(func(c *gin.Context) {
		msg := "Route not found"
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			msg = "API route not found"
		}
		common.RespErrorStr(c, http.StatusNotFound, msg)
	})
}
