package usecase

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"agrimarket_backend/internal/feature/auth/domain/entity"
)

// resetCodeTTL はパスワードリセットコードの有効期間です。
const resetCodeTTL = 10 * time.Minute

// VerificationStore はパスワードリセットコードの保存先を抽象化します。
// 期限切れの判定は利用者（usecase）側が提示時に行います。
type VerificationStore interface {
	// Put はエントリを保存します。同じメールアドレスの既存エントリは上書きされます。
	Put(ctx context.Context, entry *entity.VerificationEntry) error

	// Get はメールアドレスに対応するエントリを返します。
	// 存在しない場合、ErrVerificationNotFoundを返します。
	Get(ctx context.Context, email string) (*entity.VerificationEntry, error)

	// Delete はエントリを削除します。存在しない場合もエラーにはなりません。
	Delete(ctx context.Context, email string) error
}

// RequestPasswordReset は6桁のリセットコードを発行し、10分間有効なエントリとして保存します。
// アカウントの存在は確認しません。デモ用にコードをそのまま返します。
func (u *authUsecase) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", invalid("Email is required")
	}

	code, err := u.newCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}

	entry := &entity.VerificationEntry{
		Email:     email,
		Code:      code,
		ExpiresAt: u.now().Add(resetCodeTTL),
	}
	if err := u.codes.Put(ctx, entry); err != nil {
		return "", fmt.Errorf("failed to store verification code: %w", err)
	}

	// メール送信は行わず、ログにのみ出力する
	slog.Info("[DEMO] verification code issued", "email", email, "code", code, "expires_at", entry.ExpiresAt)
	return code, nil
}

// ConfirmPasswordReset はリセットコードを検証し、成功時にエントリを削除します。
// persistReset が有効な場合は新しいパスワードのハッシュを保存します。
func (u *authUsecase) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error {
	if email == "" {
		return invalid("Email is required")
	}
	if code == "" || newPassword == "" {
		return invalid("Code and new password are required")
	}
	if u.persistReset {
		if err := validatePassword(newPassword); err != nil {
			return err
		}
	}

	entry, err := u.codes.Get(ctx, email)
	if err != nil {
		return err
	}

	if entry.IsExpired(u.now()) {
		if err := u.codes.Delete(ctx, email); err != nil {
			slog.Warn("failed to delete expired verification code", "email", email, "error", err)
		}
		return ErrVerificationExpired
	}

	if subtle.ConstantTimeCompare([]byte(entry.Code), []byte(code)) != 1 {
		return ErrVerificationMismatch
	}

	if u.persistReset {
		if err := u.savePassword(ctx, email, newPassword); err != nil {
			return err
		}
	}

	if err := u.codes.Delete(ctx, email); err != nil {
		return fmt.Errorf("failed to delete verification code: %w", err)
	}
	return nil
}

// savePassword は新しいパスワードのハッシュを保存します。
// 対応するアカウントがない場合は警告ログのみ出力します。
func (u *authUsecase) savePassword(ctx context.Context, email, password string) error {
	hashed, err := u.hasher.Hash(password)
	if err != nil {
		return err
	}
	if err := u.users.UpdatePassword(ctx, email, hashed); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			slog.Warn("password reset confirmed for unknown account", "email", email)
			return nil
		}
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// generateCode は暗号論的乱数から100000〜999999の6桁コードを生成します。
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
