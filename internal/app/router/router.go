// Package router はHTTPルーティングを定義します。
package router

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "agrimarket_backend/internal/feature/auth/transport/handler"
	carthandler "agrimarket_backend/internal/feature/cart/transport/handler"
	cataloghandler "agrimarket_backend/internal/feature/catalog/transport/handler"
	mediahandler "agrimarket_backend/internal/feature/media/transport/handler"
	session "agrimarket_backend/internal/feature/session/domain/entity"
	sessionhandler "agrimarket_backend/internal/feature/session/transport/handler"
	sessionmw "agrimarket_backend/internal/feature/session/transport/middleware"
	"agrimarket_backend/internal/platform/http/handler"
	"agrimarket_backend/internal/platform/http/middleware"
	jwtmw "agrimarket_backend/internal/platform/jwt"
	"agrimarket_backend/internal/shared/ratelimiter"
)

// Handlers は各フィーチャーのHTTPハンドラーです。
type Handlers struct {
	Auth      *authhandler.AuthHandler
	Catalog   *cataloghandler.CatalogHandler
	Media     *mediahandler.UploadHandler
	Session   *sessionhandler.SessionHandler
	Cart      *carthandler.CartHandler
	Readiness *handler.ReadinessHandler
}

// Options はルート全体に適用するミドルウェアの設定です。
type Options struct {
	Sessions       jwtmw.SessionParser
	ResetLimiter   ratelimiter.Limiter
	Metrics        *middleware.Metrics
	AllowedOrigins []string
}

func NewRouter(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	// ブラウザのフロントエンドから呼ばれるためCORSを許可する
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	if h.Readiness != nil {
		r.GET("/readyz", h.Readiness.Ready)
	}

	api := r.Group("/api")
	{
		// 公開ルートはセッションを参照しないため、古いトークンが付いていても通す
		auth := api.Group("/auth")
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/login", h.Auth.Login)
		if opts.ResetLimiter != nil {
			auth.POST("/forgot-password", middleware.RateLimit(opts.ResetLimiter), h.Auth.ForgotPassword)
		} else {
			auth.POST("/forgot-password", h.Auth.ForgotPassword)
		}

		api.GET("/products", h.Catalog.ListProducts)
		api.POST("/products", h.Catalog.CreateProduct)
		api.GET("/byproducts", h.Catalog.ListByProducts)
		api.POST("/byproducts", h.Catalog.CreateByProduct)
		api.POST("/upload", h.Media.Upload)
	}

	// トークンがあればセッションを復元する（なくても通す）
	nav := api.Group("")
	nav.Use(jwtmw.SessionLoader(opts.Sessions))
	{
		nav.GET("/session", h.Session.Current)
		nav.POST("/session/role", h.Session.SelectRole)
		nav.POST("/session/category", h.Session.SelectCategory)

		// ロールとカテゴリの選択が済んだセッションのみ
		ready := nav.Group("")
		ready.Use(sessionmw.RequireStage(session.StageReady))
		{
			ready.GET("/dashboard", h.Session.Dashboard)
			ready.GET("/cart", h.Cart.Get)
			ready.POST("/cart/items", h.Cart.AddItem)
			ready.PATCH("/cart/items/:productId", h.Cart.UpdateQuantity)
			ready.DELETE("/cart/items/:productId", h.Cart.RemoveItem)
		}
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodHead, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
