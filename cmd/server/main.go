package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"
	mongov1 "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gorm.io/gorm"

	"agrimarket_backend/internal/app/di"
	"agrimarket_backend/internal/app/router"
	authhandler "agrimarket_backend/internal/feature/auth/transport/handler"
	authusecase "agrimarket_backend/internal/feature/auth/usecase"
	carthandler "agrimarket_backend/internal/feature/cart/transport/handler"
	cartusecase "agrimarket_backend/internal/feature/cart/usecase"
	cataloghandler "agrimarket_backend/internal/feature/catalog/transport/handler"
	catalogusecase "agrimarket_backend/internal/feature/catalog/usecase"
	mediahandler "agrimarket_backend/internal/feature/media/transport/handler"
	mediausecase "agrimarket_backend/internal/feature/media/usecase"
	sessionhandler "agrimarket_backend/internal/feature/session/transport/handler"
	sessionusecase "agrimarket_backend/internal/feature/session/usecase"
	platformdb "agrimarket_backend/internal/platform/db"
	"agrimarket_backend/internal/platform/http/handler"
	"agrimarket_backend/internal/platform/http/middleware"
	jwtmw "agrimarket_backend/internal/platform/jwt"
	platformmongo "agrimarket_backend/internal/platform/mongo"
	"agrimarket_backend/internal/platform/password"
	platformredis "agrimarket_backend/internal/platform/redis"
	"agrimarket_backend/internal/shared/ratelimiter"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := di.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	jwtCfg, err := jwtmw.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	checks := map[string]handler.Check{}

	// db
	var db *gorm.DB
	if cfg.NeedsSQL() {
		db, err = platformdb.Open(platformdb.LoadConfigFromEnv(), di.SQLModels()...)
		if err != nil {
			log.Fatal(err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal(err)
		}
		defer sqlDB.Close()
		checks["database"] = sqlDB.PingContext
	}

	// MongoDB
	var mdb *mongov1.Database
	if cfg.UserStore == di.UserStoreMongo {
		mcfg := platformmongo.LoadConfig()
		client, err := platformmongo.Connect(ctx, mcfg)
		if err != nil {
			log.Fatal(err)
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				slog.Error("failed to disconnect MongoDB", "error", err)
			}
		}()
		mdb = client.Database(mcfg.Database)
		checks["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }
	}

	// Redis（未設定または接続できない場合はキャッシュなし・メモリストアで動作）
	var rdb *redisv9.Client
	if rcfg := platformredis.LoadConfig(); rcfg.Enabled() {
		if tmp, err := platformredis.NewRedisClient(ctx, rcfg); err != nil {
			slog.Warn("Redis unavailable. Running without cache.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
			checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		}
	}

	// Repository
	userRepo, err := di.NewUserRepository(ctx, cfg, db, mdb)
	if err != nil {
		log.Fatal(err)
	}
	productRepo, byProductRepo, err := di.NewCatalogRepositories(cfg, db, rdb)
	if err != nil {
		log.Fatal(err)
	}

	// Usecase
	tokens := jwtmw.NewGenerator(jwtCfg.Secret, jwtCfg.Expiration)
	catalogUC := catalogusecase.NewCatalogUsecase(productRepo, byProductRepo)
	authUC := authusecase.NewAuthUsecase(userRepo, password.NewBcryptHasher(0), tokens, di.NewVerificationStore(rdb), cfg.PasswordResetPersist)
	sessionUC := sessionusecase.NewSessionUsecase(tokens, catalogUC)
	cartUC := cartusecase.NewCartUsecase(di.NewCartStore(rdb))
	mediaUC := mediausecase.NewMediaUsecase()

	// ルータ生成
	r := router.NewRouter(router.Handlers{
		Auth:      authhandler.NewAuthHandler(authUC),
		Catalog:   cataloghandler.NewCatalogHandler(catalogUC),
		Media:     mediahandler.NewUploadHandler(mediaUC),
		Session:   sessionhandler.NewSessionHandler(sessionUC),
		Cart:      carthandler.NewCartHandler(cartUC),
		Readiness: handler.NewReadinessHandler(checks),
	}, router.Options{
		Sessions:       tokens,
		ResetLimiter:   ratelimiter.NewRateLimiter(cfg.ResetRateLimit, time.Minute),
		Metrics:        middleware.NewMetrics("agrimarket"),
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("server starting", "addr", srv.Addr, "user_store", cfg.UserStore, "catalog_store", cfg.CatalogStore, "redis", rdb != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
