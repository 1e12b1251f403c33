package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestContext tags every request with an id and the client ip, and plants
// a request-scoped logger into the request context for the layers below.
func RequestContext(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()

		log := base.With().
			Str("request_id", requestID).
			Str("ip", c.ClientIP()).
			Logger()

		c.Header("X-Request-ID", requestID)
		c.Request = c.Request.WithContext(log.WithContext(c.Request.Context()))
		c.Next()
	}
}
