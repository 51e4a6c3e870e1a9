// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"agrimarket_backend/internal/api"
	"agrimarket_backend/internal/feature/auth/transport/http/dto"
	"agrimarket_backend/internal/feature/auth/usecase"
)

const (
	msgInvalidBody    = "Invalid request body"
	msgInvalidAction  = "Invalid action"
	msgInternalError  = "Internal server error"
	msgEmailRequired  = "Email is required"
	msgSignupSuccess  = "Account created successfully"
	msgLoginSuccess   = "Login successful"
	msgCodeSent       = "Verification code sent to email"
	msgResetSucceeded = "Password reset successful"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Signup は新規ユーザーを登録し、セッショントークン付きのIdentityを返します。
	Signup(ctx context.Context, in usecase.SignupInput) (*usecase.Identity, error)
	// Login はユーザーを認証し、セッショントークン付きのIdentityを返します。
	Login(ctx context.Context, email, password string) (*usecase.Identity, error)
	// RequestPasswordReset はリセットコードを発行します。
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	// ConfirmPasswordReset はリセットコードを検証します。
	ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Signup はユーザー登録APIエンドポイントを処理します。
// - 入力不備・メール重複時は400を返却
// - 成功時はトークン付きで201を返却
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup request malformed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: msgInvalidBody})
		return
	}

	id, err := h.auth.Signup(c.Request.Context(), usecase.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		slog.Warn("signup failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		writeError(c, err)
		return
	}

	slog.Info("user signup successful", "email", id.Email, "user_id", id.UserID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, toAuthRes(id, msgSignupSuccess))
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - 未登録・パスワード不一致時は401を返却
// - 成功時はトークン付きで200を返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login request malformed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: msgInvalidBody})
		return
	}

	id, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("login failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		writeError(c, err)
		return
	}

	slog.Info("user login successful", "email", id.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, toAuthRes(id, msgLoginSuccess))
}

// ForgotPassword はパスワードリセットの2段階フローを処理します。
// actionがsend-codeならコードを発行し、verify-codeならコードを検証します。
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("forgot-password request malformed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: msgInvalidBody})
		return
	}
	if req.Email == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: msgEmailRequired})
		return
	}

	ctx := c.Request.Context()
	switch req.Action {
	case dto.ActionSendCode:
		code, err := h.auth.RequestPasswordReset(ctx, req.Email)
		if err != nil {
			slog.Warn("password reset request failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.ForgotPasswordRes{Message: msgCodeSent, DemoCode: code})

	case dto.ActionVerifyCode:
		if err := h.auth.ConfirmPasswordReset(ctx, req.Email, req.Code, req.NewPassword); err != nil {
			slog.Warn("password reset verification failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
			writeError(c, err)
			return
		}
		slog.Info("password reset successful", "email", req.Email, "remote_addr", c.ClientIP())
		c.JSON(http.StatusOK, dto.ForgotPasswordRes{Message: msgResetSucceeded})

	default:
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: msgInvalidAction})
	}
}

func toAuthRes(id *usecase.Identity, msg string) dto.AuthRes {
	return dto.AuthRes{
		UserID:   id.UserID,
		Username: id.Username,
		Email:    id.Email,
		Token:    id.Token,
		Message:  msg,
	}
}

// clientErrors はクライアントにそのまま返すエラーとステータスの対応表です。
var clientErrors = []struct {
	err    error
	status int
}{
	{usecase.ErrUserNotFound, http.StatusUnauthorized},
	{usecase.ErrInvalidPassword, http.StatusUnauthorized},
	{usecase.ErrEmailAlreadyExists, http.StatusBadRequest},
	{usecase.ErrVerificationNotFound, http.StatusBadRequest},
	{usecase.ErrVerificationExpired, http.StatusBadRequest},
	{usecase.ErrVerificationMismatch, http.StatusBadRequest},
}

// writeError はユースケースのエラーをHTTPステータスとメッセージに変換します。
// 想定外のエラーは原因をログに残し、汎用メッセージのみ返します。
func writeError(c *gin.Context, err error) {
	var vErr *usecase.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: vErr.Message})
		return
	}
	for _, ce := range clientErrors {
		if errors.Is(err, ce.err) {
			c.JSON(ce.status, api.ErrorResponse{Message: ce.err.Error()})
			return
		}
	}
	slog.Error("auth request failed", "error", err, "path", c.FullPath())
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: msgInternalError})
}
