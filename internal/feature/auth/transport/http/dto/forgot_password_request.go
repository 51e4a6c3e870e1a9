package dto

const (
	// ActionSendCode はリセットコードの発行を要求します。
	ActionSendCode = "send-code"
	// ActionVerifyCode はリセットコードを検証して新しいパスワードを設定します。
	ActionVerifyCode = "verify-code"
)

// ForgotPasswordReq はパスワードリセットエンドポイントのリクエストボディです。
// Actionによって必要なフィールドが異なります。
type ForgotPasswordReq struct {
	Email       string `json:"email"`
	Action      string `json:"action"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

// ForgotPasswordRes はパスワードリセットの応答です。
// DemoCodeはメール送信の代わりにコードを返すデモ用フィールドです。
type ForgotPasswordRes struct {
	Message  string `json:"message"`
	DemoCode string `json:"demoCode,omitempty"`
}
