// Package handler はsessionフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"agrimarket_backend/internal/api"
	catalog "agrimarket_backend/internal/feature/catalog/domain/entity"
	"agrimarket_backend/internal/feature/session/domain/entity"
	"agrimarket_backend/internal/feature/session/transport/middleware"
	"agrimarket_backend/internal/feature/session/usecase"
)

const (
	msgInvalidBody   = "Invalid request body"
	msgInternalError = "Internal server error"
)

// SessionUsecase はナビゲーション操作のユースケースを定義します。
type SessionUsecase interface {
	SelectRole(s *entity.Session, role string) (*usecase.Transition, error)
	SelectCategory(s *entity.Session, category string) (*usecase.Transition, error)
	Dashboard(ctx context.Context, s *entity.Session) (*usecase.Dashboard, error)
}

// SessionRes は現在のセッションと次に表示すべき画面です。
type SessionRes struct {
	Stage    string `json:"stage"`
	Next     string `json:"next"`
	UserID   string `json:"userId,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
	Category string `json:"category,omitempty"`
	Token    string `json:"token,omitempty"`
}

type selectRoleReq struct {
	Role string `json:"role"`
}

type selectCategoryReq struct {
	Category string `json:"category"`
}

// DashboardRes はダッシュボード画面の内容です。
type DashboardRes struct {
	View     string            `json:"view"`
	Role     string            `json:"role"`
	Category string            `json:"category"`
	Products []catalog.Product `json:"products"`
}

type SessionHandler struct {
	sessions SessionUsecase
}

func NewSessionHandler(sessions SessionUsecase) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Current は GET /api/session を処理します。未認証でも200を返します。
func (h *SessionHandler) Current(c *gin.Context) {
	s := entity.FromContext(c.Request.Context())
	c.JSON(http.StatusOK, toSessionRes(s, ""))
}

// SelectRole は POST /api/session/role を処理します。
func (h *SessionHandler) SelectRole(c *gin.Context) {
	var req selectRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: msgInvalidBody})
		return
	}
	tr, err := h.sessions.SelectRole(entity.FromContext(c.Request.Context()), req.Role)
	if err != nil {
		writeError(c, err)
		return
	}
	slog.Info("role selected", "user_id", tr.Session.UserID, "role", tr.Session.Role)
	c.JSON(http.StatusOK, toSessionRes(tr.Session, tr.Token))
}

// SelectCategory は POST /api/session/category を処理します。
func (h *SessionHandler) SelectCategory(c *gin.Context) {
	var req selectCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: msgInvalidBody})
		return
	}
	tr, err := h.sessions.SelectCategory(entity.FromContext(c.Request.Context()), req.Category)
	if err != nil {
		writeError(c, err)
		return
	}
	slog.Info("category selected", "user_id", tr.Session.UserID, "category", tr.Session.Category)
	c.JSON(http.StatusOK, toSessionRes(tr.Session, tr.Token))
}

// Dashboard は GET /api/dashboard を処理します。
func (h *SessionHandler) Dashboard(c *gin.Context) {
	d, err := h.sessions.Dashboard(c.Request.Context(), entity.FromContext(c.Request.Context()))
	if err != nil {
		writeError(c, err)
		return
	}
	ps := d.Products
	if ps == nil {
		ps = []catalog.Product{}
	}
	c.JSON(http.StatusOK, DashboardRes{
		View:     d.Route,
		Role:     string(d.Role),
		Category: string(d.Category),
		Products: ps,
	})
}

func toSessionRes(s *entity.Session, token string) SessionRes {
	res := SessionRes{
		Stage: s.Stage().String(),
		Next:  s.Next(),
		Token: token,
	}
	if s != nil {
		res.UserID = s.UserID
		res.Username = s.Username
		res.Email = s.Email
		res.Role = string(s.Role)
		res.Category = string(s.Category)
	}
	return res
}

func writeError(c *gin.Context, err error) {
	if middleware.AbortWithStageError(c, err) {
		return
	}
	var vErr *usecase.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: vErr.Message})
		return
	}
	slog.Error("session request failed", "error", err, "path", c.FullPath())
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: msgInternalError})
}
