package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"lexora/internal/shared/utils"
)

// WebhookSecret authenticates the bot webhook with a shared secret header.
// An empty configured secret disables the check, for local development only.
func WebhookSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		provided := c.GetHeader("X-Webhook-Secret")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid webhook secret")
			c.Abort()
			return
		}

		c.Next()
	}
}
