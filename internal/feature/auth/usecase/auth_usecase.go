package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"agrimarket_backend/internal/feature/auth/domain/entity"
	sessionentity "agrimarket_backend/internal/feature/session/domain/entity"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 6
	// minUsernameLength はユーザー名の最低文字数を定義します。
	minUsernameLength = 3
	// maxPasswordBytes はbcryptが扱えるパスワードの最大バイト数です。
	maxPasswordBytes = 72

	// dummyPasswordHash はユーザーが存在しない場合にも比較処理を行うためのダミーハッシュです。
	dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、ErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// UpdatePassword は指定されたメールアドレスのユーザーのパスワードハッシュを更新します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

// PasswordHasher はパスワードのハッシュ化と照合を抽象化します。
type PasswordHasher interface {
	// Hash は平文パスワードからハッシュを生成します。
	Hash(password string) (string, error)
	// Compare はハッシュと平文パスワードが一致しない場合にエラーを返します。
	Compare(hash, password string) error
}

// TokenGenerator はセッショントークン生成のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type TokenGenerator interface {
	// GenerateToken は指定されたセッションの署名済みトークンを生成します。
	GenerateToken(s *sessionentity.Session) (string, error)
}

// Identity はサインアップ・ログイン成功時にクライアントへ返す情報です。
type Identity struct {
	UserID   string
	Username string
	Email    string
	Token    string
}

// SignupInput はサインアップの入力値です。
type SignupInput struct {
	Username string
	Email    string
	Phone    string
	Password string
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenGenerator
	codes  VerificationStore

	// persistReset が true の場合、パスワードリセット確定時に新しいパスワードを保存します。
	persistReset bool

	now     func() time.Time
	newCode func() (string, error)
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, hasher PasswordHasher, tokens TokenGenerator, codes VerificationStore, persistReset bool) *authUsecase {
	return &authUsecase{
		users:        users,
		hasher:       hasher,
		tokens:       tokens,
		codes:        codes,
		persistReset: persistReset,
		now:          time.Now,
		newCode:      generateCode,
	}
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return invalid(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	if len(password) > maxPasswordBytes {
		return invalid(fmt.Sprintf("Password must not exceed %d bytes", maxPasswordBytes))
	}
	return nil
}

// Signup はハッシュ化されたパスワードで新規ユーザーを登録します。
// ユーザーIDはストアの主キーではなく、登録時刻から生成されます。
func (u *authUsecase) Signup(ctx context.Context, in SignupInput) (*Identity, error) {
	if in.Username == "" || in.Email == "" || in.Phone == "" || in.Password == "" {
		return nil, invalid("All fields are required")
	}

	// メールアドレスの重複を長さの検証より先に確認する
	if _, err := u.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(in.Username) < minUsernameLength {
		return nil, invalid(fmt.Sprintf("Username must be at least %d characters", minUsernameLength))
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := u.now()
	user := &entity.User{
		Username:     in.Username,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return u.issue(&sessionentity.Session{
		UserID:   fmt.Sprintf("user_%d", now.UnixMilli()),
		Username: in.Username,
		Email:    in.Email,
	})
}

// Login はユーザーを認証し、成功時にセッショントークン付きのIdentityを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもハッシュ比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (*Identity, error) {
	if email == "" || password == "" {
		return nil, invalid("Email and password are required")
	}

	var (
		user *entity.User
		err  error
	)
	// "@" を含まない値はメールアドレスとみなさず、未登録として扱う
	if strings.Contains(email, "@") {
		user, err = u.users.FindByEmail(ctx, email)
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
	}

	passwordHash := dummyPasswordHash
	if user != nil {
		passwordHash = user.PasswordHash
	}
	compareErr := u.hasher.Compare(passwordHash, password)

	if user == nil {
		return nil, ErrUserNotFound
	}
	if compareErr != nil {
		return nil, ErrInvalidPassword
	}

	// 表示名とユーザーIDはメールアドレスから導出する
	username, _, _ := strings.Cut(email, "@")
	userID := "user_" + strings.Replace(strings.Replace(email, "@", "_", 1), ".", "_", 1)

	return u.issue(&sessionentity.Session{
		UserID:   userID,
		Username: username,
		Email:    email,
	})
}

// issue はセッションに署名済みトークンを付与してIdentityを生成します。
func (u *authUsecase) issue(s *sessionentity.Session) (*Identity, error) {
	token, err := u.tokens.GenerateToken(s)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &Identity{
		UserID:   s.UserID,
		Username: s.Username,
		Email:    s.Email,
		Token:    token,
	}, nil
}
