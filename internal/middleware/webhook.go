package middleware

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"peoplehub/api/internal/config"
	"peoplehub/api/internal/security"
)

// Webhook verifies the HMAC signature on trigger callbacks from the
// database so only it can drive the absence-changed endpoint. The
// signed date header bounds replay to a short window.
func Webhook(cfg *config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		signature := c.GetHeader(security.HeaderWebhookSignature)
		date := c.GetHeader(security.HeaderWebhookDate)
		if signature == "" || date == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "signature_required"})
			return
		}

		sentAt, err := time.Parse(time.RFC3339, date)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_date"})
			return
		}
		if time.Since(sentAt) > 5*time.Minute || time.Until(sentAt) > 2*time.Minute {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "request_expired"})
			return
		}

		rawBody, err := c.GetRawData()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(rawBody))

		if !security.ValidateWebhookSignature(cfg.Security.WebhookSecret, signature, date, rawBody) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_signature"})
			return
		}

		c.Next()
	}
}
