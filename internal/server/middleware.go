package server

import (
	"net/http"
	"strings"
	"time"

	"auction-house/internal/session"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	utils.Info("HTTP Request", map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	})
}

// AuthRequired gates a route group behind session validation. The
// credential comes from the Authorization header, with or without a
// "Bearer " prefix. On success the resolved identity is stored on the
// context; handlers must use it and never trust identity fields from the
// request body.
func AuthRequired(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")

		identity, err := sessions.Validate(credential)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, err, "invalid or expired credential")
			utils.Warn("AuthRequired: rejected request", map[string]any{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			c.Abort()
			return
		}

		utils.SetIdentity(c, identity)
		c.Next()
	}
}
