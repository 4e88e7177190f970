package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Middleware rejects requests that fail the bearer check before any handler runs
func Middleware(a *Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := a.Check(c.GetHeader("Authorization"))
		if err == nil {
			c.Next()
			return
		}

		status, code := http.StatusUnauthorized, "UNAUTHENTICATED"
		if errors.Is(err, ErrForbidden) {
			status, code = http.StatusForbidden, "FORBIDDEN"
		}
		c.AbortWithStatusJSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
	}
}
