package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/health"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	myPostgresRepo "github.com/Miraines/MoonyAndStarry/account-service/internal/adapters/db/postgres"
	myRedisRepo "github.com/Miraines/MoonyAndStarry/account-service/internal/adapters/db/redis"
	myGrpc "github.com/Miraines/MoonyAndStarry/account-service/internal/adapters/transport/grpc"
	"github.com/Miraines/MoonyAndStarry/account-service/internal/adapters/transport/http/api"
	"github.com/Miraines/MoonyAndStarry/account-service/internal/app/account/authn"
	"github.com/Miraines/MoonyAndStarry/account-service/internal/app/account/hasher"
	"github.com/Miraines/MoonyAndStarry/account-service/internal/app/account/jwt"
	appsvc "github.com/Miraines/MoonyAndStarry/account-service/internal/app/account/service"
	"github.com/Miraines/MoonyAndStarry/account-service/internal/app/account/validate"
	"github.com/Miraines/MoonyAndStarry/account-service/internal/infra/config"
	lg "github.com/Miraines/MoonyAndStarry/account-service/internal/infra/log"
	"github.com/Miraines/MoonyAndStarry/account-service/internal/infra/migrate"
	"github.com/Miraines/MoonyAndStarry/account-service/internal/infra/server"
)

func main() {
	zapLog := lg.Must(os.Getenv("LOG_LEVEL"))
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("failed to load config", zap.Error(err))
	}
	if cfg.LogLevel != "" {
		zapLog = lg.Must(cfg.LogLevel)
	}
	gin.SetMode(gin.ReleaseMode)

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zapLog.Fatal("db handle", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := migrate.Up(sqlDB); err != nil {
		zapLog.Fatal("run migrations", zap.Error(err))
	}

	jwtUtil, err := jwt.NewJWTUtil(cfg)
	if err != nil {
		zapLog.Fatal("failed to init JWT util", zap.Error(err))
	}

	userRepo := myPostgresRepo.NewPostgresUserRepo(db)
	svcOpts := []appsvc.Option{appsvc.WithLogger(zapLog)}

	var cachePinger myGrpc.Pinger
	if cfg.RedisAddress != "" {
		redisCli := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisCli.Close()
		userCache := myRedisRepo.NewRedisUserCache(redisCli)
		svcOpts = append(svcOpts, appsvc.WithCache(userCache, cfg.UserCacheTTL))
		cachePinger = userCache
	} else {
		zapLog.Info("REDIS_ADDRESS is empty, user cache disabled")
	}

	svc := appsvc.New(userRepo, hasher.New(hasher.DefaultParams), jwtUtil, validate.New(), svcOpts...)

	registry, err := api.NewOperations(svc)
	if err != nil {
		zapLog.Fatal("register operations", zap.Error(err))
	}

	healthChecker := myGrpc.NewHealthChecker(db, cachePinger, zapLog)
	healthSrv := health.NewServer()

	router := api.NewRouter(
		zapLog,
		authn.NewResolver(jwtUtil),
		api.NewHandler(registry),
		healthChecker,
		api.RouterConfig{AllowedOrigins: cfg.AllowedOrigins, AllowCredentials: cfg.AllowCredentials},
	)

	srv := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	rootCtx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		healthChecker.Watch(ctx, healthSrv, cfg.HealthCheckInterval)
		return nil
	})

	g.Go(func() error {
		return server.StartGRPCServer(ctx, cfg, healthSrv, zapLog)
	})

	g.Go(func() error {
		zapLog.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddress))
		var err error
		if cfg.TLSEnabled() {
			err = srv.ListenAndServeTLS(cfg.HTTPSCertFile, cfg.HTTPSKeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		zapLog.Info("shutdown signal received")
	case <-ctx.Done():
		zapLog.Warn("server stopped unexpectedly")
	}
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLog.Error("shutdown error", zap.Error(err))
	}
	if err := g.Wait(); err != nil {
		zapLog.Error("server terminated", zap.Error(err))
	}
}
