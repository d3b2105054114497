package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	myPostgresRepo "github.com/Miraines/MoonyAndStarry/account-service/internal/adapters/db/postgres"
	"github.com/Miraines/MoonyAndStarry/account-service/internal/app/account/hasher"
	"github.com/Miraines/MoonyAndStarry/account-service/internal/app/account/seed"
	"github.com/Miraines/MoonyAndStarry/account-service/internal/infra/config"
	lg "github.com/Miraines/MoonyAndStarry/account-service/internal/infra/log"
	"github.com/Miraines/MoonyAndStarry/account-service/internal/infra/migrate"
)

func main() {
	zapLog := lg.Must(os.Getenv("LOG_LEVEL"))
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("failed to load config", zap.Error(err))
	}

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := seed.Users(ctx, myPostgresRepo.NewPostgresUserRepo(db), hasher.New(hasher.DefaultParams), seed.DefaultCount)
	if err != nil {
		zapLog.Fatal("seeding failed", zap.Int("created", res.Created), zap.Error(err))
	}
	zapLog.Info("seeding finished", zap.Int("created", res.Created), zap.Int("skipped", res.Skipped))
}
