package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"agrimarket_backend/internal/api"
	"agrimarket_backend/internal/shared/ratelimiter"
)

const msgTooManyRequests = "Too many requests. Please try again later."

// RateLimit はクライアントIPごとにlimiterで頻度を制限し、超過したリクエストを429で拒否します。
func RateLimit(limiter ratelimiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.FullPath() + "|" + c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, api.ErrorResponse{Message: msgTooManyRequests})
			return
		}
		c.Next()
	}
}
