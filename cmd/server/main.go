package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/jengzang/filmday-backend-go/internal/api"
	"github.com/jengzang/filmday-backend-go/internal/auth"
	"github.com/jengzang/filmday-backend-go/internal/config"
	"github.com/jengzang/filmday-backend-go/internal/database"
	"github.com/jengzang/filmday-backend-go/internal/logging"
	"github.com/jengzang/filmday-backend-go/internal/middleware"
	"github.com/jengzang/filmday-backend-go/internal/repository"
	"github.com/jengzang/filmday-backend-go/internal/service"
)

func main() {
	// 加载配置
	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err := cfg.Validate(); err != nil {
		logging.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.UsesDefaultJWTSecret() {
		logging.Warn().Str("gin_mode", cfg.GinMode).Msg("JWT_SECRET is unset, tokens are signed with a public placeholder")
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 初始化数据库
	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer database.Close()
	db := database.GetDB()

	// Redis is optional
	var rdb *redis.Client
	client, err := database.NewRedis(ctx, cfg.Redis)
	switch {
	case errors.Is(err, database.ErrRedisDisabled):
		logging.Info().Msg("running without result cache")
	case err != nil:
		logging.Warn().Err(err).Msg("Redis unavailable, running without cache")
	default:
		rdb = client
		defer rdb.Close()
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWTSecret, cfg.SessionTimeout)
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid auth configuration")
	}

	films := repository.NewFilmRepository(db)
	users := repository.NewUserRepository(db)
	filmService := service.NewFilmService(films, rdb, cfg.Redis.TTL)

	if _, err := filmService.CatalogInfo(ctx); err != nil {
		logging.Fatal().Err(err).Msg("film catalog unavailable")
	}

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)
	go loginLimiter.Cleanup(ctx.Done())

	// 初始化路由
	router := api.SetupRouter(cfg, api.Services{
		Films:        filmService,
		Users:        service.NewUserService(users, jwtManager),
		Filters:      service.NewFiltersService(users, filmService),
		Imports:      service.NewImportService(films, repository.NewImportRunRepository(db), filmService),
		JWT:          jwtManager,
		LoginLimiter: loginLimiter,
	})

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logging.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("shutdown failed")
		}
	}()

	// 启动服务器
	logging.Info().Str("addr", cfg.Port).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Fatal().Err(err).Msg("failed to start server")
	}
}
