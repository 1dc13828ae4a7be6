package jwtmw

// EnvKeyJWTSecret はJWT署名鍵を保持する環境変数名です。
const EnvKeyJWTSecret = "JWT_SECRET"

// Gin コンテキストのキー
const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

// RoleAdmin は辞書の書き込み操作を許可されたロールです。
const RoleAdmin = "admin"
