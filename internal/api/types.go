// Package api はHTTP APIで共通して使用するリクエスト/レスポンス型を定義します。
package api

// ErrorResponse はエラー時のレスポンスボディです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse はメッセージのみを返すレスポンスボディです。
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse はログイン成功時のレスポンスボディです。
type TokenResponse struct {
	Token string `json:"token"`
}

// SignupRequest は /signup のリクエストボディです。
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest は /login のリクエストボディです。
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
