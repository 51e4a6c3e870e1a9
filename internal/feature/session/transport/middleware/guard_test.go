package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalog "agrimarket_backend/internal/feature/catalog/domain/entity"
	"agrimarket_backend/internal/feature/session/domain/entity"
)

func TestRequireStage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	identity := entity.Session{UserID: "user_1", Email: "a@example.com"}
	withRole := identity
	withRole.Role = entity.RoleSeller
	ready := withRole
	ready.Category = catalog.CategoryFlorist

	tests := []struct {
		name             string
		session          *entity.Session
		want             entity.Stage
		expectedStatus   int
		expectedStage    string
		expectedRedirect string
	}{
		{"anonymous", nil, entity.StageReady, http.StatusUnauthorized, "unauthenticated", "/login"},
		{"role missing", &identity, entity.StageReady, http.StatusPreconditionRequired, "role_unset", "/role-selection"},
		{"category missing", &withRole, entity.StageReady, http.StatusPreconditionRequired, "category_unset", "/category-selection"},
		{"ready", &ready, entity.StageReady, http.StatusOK, "", ""},
		{"lower requirement passes", &identity, entity.StageRoleUnset, http.StatusOK, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(func(c *gin.Context) {
				if tt.session != nil {
					c.Request = c.Request.WithContext(entity.WithSession(c.Request.Context(), tt.session))
				}
				c.Next()
			})
			router.GET("/guarded", RequireStage(tt.want), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				return
			}
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedStage, body["stage"])
			assert.Equal(t, tt.expectedRedirect, body["redirect"])
			assert.NotEmpty(t, body["message"])
		})
	}
}
