// Package middleware はナビゲーションステージのガードを提供します。
package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"agrimarket_backend/internal/api"
	"agrimarket_backend/internal/feature/session/domain/entity"
)

var stageMessages = map[entity.Stage]string{
	entity.StageUnauthenticated: "Please log in first",
	entity.StageRoleUnset:       "Please select a role first",
	entity.StageCategoryUnset:   "Please select a category first",
}

// RequireStage は、セッションがwantに達していないリクエストを最初の未達ステージへ誘導します。
// 未認証は401、それ以外の未達は428を返します。
func RequireStage(want entity.Stage) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := entity.FromContext(c.Request.Context())
		if err := s.Require(want); err != nil {
			AbortWithStageError(c, err)
			return
		}
		c.Next()
	}
}

// AbortWithStageError はerrが*entity.StageErrorであればレスポンスを書き込み、trueを返します。
func AbortWithStageError(c *gin.Context, err error) bool {
	var sErr *entity.StageError
	if !errors.As(err, &sErr) {
		return false
	}
	status := http.StatusPreconditionRequired
	if sErr.Have == entity.StageUnauthenticated {
		status = http.StatusUnauthorized
	}
	c.AbortWithStatusJSON(status, api.StageErrorResponse{
		Message:  stageMessages[sErr.Have],
		Stage:    sErr.Have.String(),
		Redirect: sErr.Redirect(),
	})
	return true
}
