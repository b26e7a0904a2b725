package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
)

// requestContext returns the incoming request's context so database calls
// are cancelled when the client disconnects. Handlers invoked directly in
// tests may carry no request at all.
func requestContext(c *gin.Context) context.Context {
	if c == nil || c.Request == nil {
		return context.Background()
	}
	return c.Request.Context()
}
