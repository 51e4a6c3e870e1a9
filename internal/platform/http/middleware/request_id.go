// Package middleware はすべてのルートに共通するginミドルウェアを提供します。
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"
	ctxKeyRequestID = "request_id"
)

// RequestID はリクエストIDを付与します。
// クライアントが X-Request-ID を送った場合はそれを引き継ぎます。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(ctxKeyRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// GetRequestID はRequestIDミドルウェアが設定したIDを返します。
func GetRequestID(c *gin.Context) string {
	return c.GetString(ctxKeyRequestID)
}
