package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const contextKeyRequestID = "request_id"

// RequestID honors an incoming X-Request-Id header or generates one, and
// echoes it back on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-Id", id)
		c.Set(contextKeyRequestID, id)
		c.Next()
	}
}

// GetRequestID retrieves the request id from context.
func GetRequestID(c *gin.Context) string {
	return c.GetString(contextKeyRequestID)
}
