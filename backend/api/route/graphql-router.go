package route

import (
	"linkboard/backend/api/middleware"
	"linkboard/backend/common"
	"linkboard/backend/graph"

	"github.com/gin-gonic/gin"
)

func SetGraphQLRouter(route *gin.Engine, opts *Options) {
	graphqlHandler := graph.NewHandler(opts.Schema, common.GraphQLPlayground)

	graphqlRouter := route.Group("/graphql")
	graphqlRouter.Use(middleware.GlobalAPIRateLimit())
	graphqlRouter.Use(middleware.OptionalJWTAuth())
	{
		graphqlRouter.POST("", graphqlHandler)
		graphqlRouter.GET("", graphqlHandler)
	}
}
