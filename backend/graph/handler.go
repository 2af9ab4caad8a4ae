package graph

import (
	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"
)

// NewHandler serves schema over HTTP. GET requests from a browser get the
// Playground when playground is true.
func NewHandler(schema *graphql.Schema, playground bool) gin.HandlerFunc {
	h := handler.New(&handler.Config{
		Schema:     schema,
		Pretty:     false,
		GraphiQL:   false,
		Playground: playground,
	})
	return func(c *gin.Context) {
		h.ContextHandler(c.Request.Context(), c.Writer, c.Request)
	}
}
