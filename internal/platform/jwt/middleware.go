package jwtmw

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"agrimarket_backend/internal/api"
	session "agrimarket_backend/internal/feature/session/domain/entity"
)

// SessionParser はトークンからセッションを復元します。
type SessionParser interface {
	Parse(tokenStr string) (*session.Session, error)
}

// SessionLoader returns a Gin middleware that rebuilds the session from the
// bearer token and stores it in the request context.
// リクエストにAuthorizationヘッダーがない場合は未認証のまま次へ進みます。
// ステージの判定はRequireStageが行います。
func SessionLoader(parser SessionParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get Authorization header
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.Next()
			return
		}
		if !strings.HasPrefix(auth, "Bearer ") {
			abortInvalid(c)
			return
		}

		// 2. Parse and verify the token
		s, err := parser.Parse(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			slog.Warn("session token rejected", "error", err, "remote_addr", c.ClientIP())
			abortInvalid(c)
			return
		}

		// 3. Pass the session through the request context
		c.Request = c.Request.WithContext(session.WithSession(c.Request.Context(), s))
		c.Next()
	}
}

func abortInvalid(c *gin.Context) {
	e := &session.StageError{Have: session.StageUnauthenticated, Want: session.StageRoleUnset}
	c.AbortWithStatusJSON(http.StatusUnauthorized, api.StageErrorResponse{
		Message:  "Invalid session token",
		Stage:    e.Have.String(),
		Redirect: e.Redirect(),
	})
}
