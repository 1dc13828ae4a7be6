// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"invest_backend/internal/api"
	"invest_backend/internal/feature/auth/usecase"
)

// レスポンスのエラーメッセージ。原因の詳細はログにのみ残します。
const (
	msgInvalidRequest     = "invalid request"
	msgSignupFailed       = "signup failed"
	msgInvalidCredentials = "invalid email or password"
	msgInternal           = "internal server error"
)

// AuthUsecase は認証操作のユースケースです。インターフェースは handler 側で定義します。
type AuthUsecase interface {
	Signup(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) (string, error)
}

// AuthHandler は /signup と /login を処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler は新しい AuthHandler を作成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Signup は一般ユーザーを登録します。
//   - 入力不正、パスワード要件違反は400
//   - メールアドレス重複は409
//   - それ以外の失敗は500
func (h *AuthHandler) Signup(c *gin.Context) {
	var req api.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: msgInvalidRequest})
		return
	}

	err := h.auth.Signup(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		slog.Info("user signup successful", "email", req.Email)
		c.JSON(http.StatusCreated, api.MessageResponse{Message: "ok"})
	case errors.Is(err, usecase.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrEmailAlreadyExists):
		slog.Warn("signup rejected", "reason", "duplicate email", "remote_addr", c.ClientIP())
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: msgSignupFailed})
	default:
		slog.Error("signup failed", "error", err, "email", req.Email)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: msgInternal})
	}
}

// Login は認証に成功したユーザーにJWTを返します。
// 認証情報の誤りは401、トークン発行やDBの障害は500です。
func (h *AuthHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: msgInvalidRequest})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, api.TokenResponse{Token: token})
	case errors.Is(err, usecase.ErrInvalidCredentials):
		slog.Warn("login rejected", "email", req.Email, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: msgInvalidCredentials})
	default:
		slog.Error("login failed", "error", err, "email", req.Email)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: msgInternal})
	}
}
