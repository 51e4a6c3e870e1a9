// Package jwtmw はセッショントークンの署名・検証とGinミドルウェアを提供します。
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	catalog "agrimarket_backend/internal/feature/catalog/domain/entity"
	session "agrimarket_backend/internal/feature/session/domain/entity"
)

// ErrInvalidToken は署名・期限・内容のいずれかが不正なトークンを表します。
var ErrInvalidToken = errors.New("invalid session token")

// Claims はセッショントークンのペイロードです。subにユーザーIDを格納します。
type Claims struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"`
	Category string `json:"category,omitempty"`
	jwt.RegisteredClaims
}

// generator はHS256でセッショントークンを署名・検証します。
type generator struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewGenerator creates a new JWT generator with the provided secret and expiration duration.
func NewGenerator(secret string, expiration time.Duration) *generator {
	return &generator{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

// GenerateToken はセッションの全フィールドを含む署名済みトークンを生成します。
func (g *generator) GenerateToken(s *session.Session) (string, error) {
	if s == nil {
		return "", errors.New("session is nil")
	}
	now := g.now()
	claims := Claims{
		Username: s.Username,
		Email:    s.Email,
		Role:     string(s.Role),
		Category: string(s.Category),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse はトークンを検証してセッションを復元します。
// HMAC以外の署名方式や未知のロール・カテゴリはErrInvalidTokenになります。
func (g *generator) Parse(tokenStr string) (*session.Session, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return g.secret, nil
	}, jwt.WithTimeFunc(g.now))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	s := &session.Session{
		UserID:   claims.Subject,
		Username: claims.Username,
		Email:    claims.Email,
	}
	if claims.Role != "" {
		r, ok := session.ParseRole(claims.Role)
		if !ok {
			return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
		}
		s.Role = r
	}
	if claims.Category != "" {
		c, ok := catalog.ParseCategory(claims.Category)
		if !ok {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidToken, claims.Category)
		}
		s.Category = c
	}
	return s, nil
}
