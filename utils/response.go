package utils

import (
	"github.com/gin-gonic/gin"
)

// identityKey is the gin context key the auth middleware stores the
// resolved session identity under.
const identityKey = "auction-house/identity"

// JSONResponse sends a structured JSON response
func JSONResponse(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

// JSONError sends a structured error response
func JSONError(c *gin.Context, status int, err error, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"error":   err.Error(),
	})
}

// SetIdentity records the authenticated identity for downstream handlers
func SetIdentity(c *gin.Context, identity string) {
	c.Set(identityKey, identity)
}

// Identity returns the authenticated identity set by the auth middleware,
// or the empty string when the request was not gated.
func Identity(c *gin.Context) string {
	return c.GetString(identityKey)
}
