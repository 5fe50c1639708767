package app

import (
	"context"
	"fmt"

	"go-leave/internal/bootstrap"
	"go-leave/internal/config"
	"go-leave/internal/middleware"
	"go-leave/internal/observability/metrics"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the connected infrastructure handed to Build. Redis is optional.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Logger *zap.Logger
}

type App struct {
	Router  *gin.Engine
	RBAC    rbac.Service
	Metrics *metrics.Metrics
}

// BuildApp wires every module onto a fresh router and loads the route policy.
func BuildApp(ctx context.Context, deps Deps) (*App, error) {
	if deps.Logger == nil {
		deps.Logger = zap.L()
	}
	if !deps.Config.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	sqlDB, err := deps.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}

	var rdb redis.Cmdable
	if deps.Redis != nil {
		rdb = deps.Redis
	}

	m := metrics.New()

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.ContextLogger(deps.Logger),
		m.GinMiddleware(),
	)

	router.GET("/healthz", bootstrap.HealthHandler(sqlDB, rdb))
	router.GET("/metrics", gin.WrapH(m.Handler()))

	rbacService, err := registerModules(router, deps, rdb, m)
	if err != nil {
		return nil, err
	}

	if err := rbacService.LoadPolicy(ctx); err != nil {
		return nil, fmt.Errorf("load rbac policy: %w", err)
	}

	return &App{Router: router, RBAC: rbacService, Metrics: m}, nil
}
