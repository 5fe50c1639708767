package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-leave/internal/app"
	"go-leave/internal/bootstrap"
	"go-leave/internal/config"
	"go-leave/internal/migrations"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/connection"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := connection.ConnectGORMWithRetry(cfg.DSN(), cfg.DBMaxRetries, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("database handle failed", zap.Error(err))
	}
	defer sqlDB.Close()

	if cfg.DBAutoMigrate {
		if err := migrations.Up(ctx, sqlDB); err != nil {
			logger.Fatal("migration failed", zap.Error(err))
		}
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.DBMaxRetries, logger)
		if err != nil {
			logger.Fatal("redis connection failed", zap.Error(err))
		}
		defer rdb.Close()
	} else {
		logger.Info("REDIS_ADDR not set, idempotency keys disabled")
	}

	a, err := app.BuildApp(ctx, app.Deps{Config: cfg, DB: db, Redis: rdb, Logger: logger})
	if err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}

	err = bootstrap.StartHTTPServer(ctx, a.Router, bootstrap.ServerConfig{
		Port:         cfg.Port,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}, bootstrap.NewStdoutAuditLogger(logger), logger)
	if err != nil {
		logger.Error("http server failed", zap.Error(err))
		os.Exit(1)
	}
}
