package usecase

import (
	"context"
	"fmt"

	catalog "agrimarket_backend/internal/feature/catalog/domain/entity"
	"agrimarket_backend/internal/feature/session/domain/entity"
)

// TokenGenerator はセッションを署名済みトークンに変換します。
type TokenGenerator interface {
	GenerateToken(s *entity.Session) (string, error)
}

// ProductLister はダッシュボードに表示する商品を取得します。
type ProductLister interface {
	ListProducts(ctx context.Context, f catalog.ProductFilter) ([]catalog.Product, error)
}

// Transition は状態遷移後のセッションと、それを運ぶ新しいトークンです。
type Transition struct {
	Session *entity.Session
	Token   string
}

// Dashboard はReadyステージのユーザーが見る画面の内容です。
type Dashboard struct {
	Route    string
	Role     entity.Role
	Category catalog.Category
	Products []catalog.Product
}

type sessionUsecase struct {
	tokens   TokenGenerator
	products ProductLister
}

// NewSessionUsecase はsessionUsecaseの新しいインスタンスを生成します。
func NewSessionUsecase(tokens TokenGenerator, products ProductLister) *sessionUsecase {
	return &sessionUsecase{tokens: tokens, products: products}
}

// SelectRole はロールを設定し、選択済みのカテゴリをクリアします。
// ログイン済み（RoleUnset以降）である必要があります。
func (u *sessionUsecase) SelectRole(s *entity.Session, role string) (*Transition, error) {
	if err := s.Require(entity.StageRoleUnset); err != nil {
		return nil, err
	}
	r, ok := entity.ParseRole(role)
	if !ok {
		return nil, invalid("Invalid role")
	}

	next := *s
	next.Role = r
	next.Category = ""
	return u.issue(&next)
}

// SelectCategory はカテゴリを設定してReadyステージに進めます。
// ロール選択済み（CategoryUnset以降）である必要があります。
func (u *sessionUsecase) SelectCategory(s *entity.Session, category string) (*Transition, error) {
	if err := s.Require(entity.StageCategoryUnset); err != nil {
		return nil, err
	}
	c, ok := catalog.ParseCategory(category)
	if !ok {
		return nil, invalid("Invalid category")
	}

	next := *s
	next.Category = c
	return u.issue(&next)
}

// Dashboard は出品者には自分の商品、購入者にはカテゴリ内の全商品を返します。
func (u *sessionUsecase) Dashboard(ctx context.Context, s *entity.Session) (*Dashboard, error) {
	if err := s.Require(entity.StageReady); err != nil {
		return nil, err
	}

	f := catalog.ProductFilter{Category: s.Category}
	if s.Role == entity.RoleSeller {
		f.SellerID = s.UserID
	}
	ps, err := u.products.ListProducts(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}
	return &Dashboard{
		Route:    entity.DashboardRoute(s.Role),
		Role:     s.Role,
		Category: s.Category,
		Products: ps,
	}, nil
}

func (u *sessionUsecase) issue(s *entity.Session) (*Transition, error) {
	token, err := u.tokens.GenerateToken(s)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &Transition{Session: s, Token: token}, nil
}
