package route

import (
	"linkboard/backend/api/handler"
	"linkboard/backend/api/middleware"

	"github.com/gin-gonic/gin"
)

type UserFinder = handler.UserFinder

func SetApiRouter(route *gin.Engine, opts *Options) {
	apiRouter := route.Group("/api")
	apiRouter.Use(middleware.GlobalAPIRateLimit())
	{
		// Public routes (no authentication required)
		apiRouter.GET("/status", handler.NewStatusHandler(opts.Health).GetStatus)

		userHandler := handler.NewUserHandler(opts.Users)
		userRoute := apiRouter.Group("/user")
		userRoute.Use(middleware.JWTAuth())
		{
			userRoute.GET("/self", userHandler.GetSelf)
		}
	}
}
