package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// DefaultRequestTimeout bounds every request's context. Repository calls run
// under the request context, so this is the ceiling on how long a hung
// database can hold a handler; deadline exceeded surfaces as 503.
const DefaultRequestTimeout = 15 * time.Second

// RequestTimeout attaches a deadline to each request's context.
func RequestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
