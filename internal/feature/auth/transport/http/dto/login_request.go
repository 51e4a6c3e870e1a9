// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// LoginReq はログインエンドポイントのリクエストボディを表します。
type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
