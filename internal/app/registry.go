package app

import (
	"time"

	"go-leave/internal/auth"
	"go-leave/internal/auth/token"
	"go-leave/internal/leave"
	"go-leave/internal/middleware"
	"go-leave/internal/observability/metrics"
	"go-leave/internal/rbac"
	"go-leave/internal/rbac/infra"
	"go-leave/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

func registerModules(
	router *gin.Engine,
	deps Deps,
	rdb redis.Cmdable,
	m *metrics.Metrics,
) (rbac.Service, error) {
	cfg := deps.Config
	logger := deps.Logger

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(deps.DB)
	userRepo := user.NewRepository(deps.DB)
	leaveRepo := leave.NewRepository(deps.DB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return nil, err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, logger)

	// --- Services ---
	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	authService := auth.NewService(userRepo, tokens, cfg.BcryptCost, logger)
	userService := user.NewService(userRepo, logger)
	leaveService := leave.NewService(leaveRepo, user.NewDirectory(userRepo), leave.Config{
		AllowReReview: cfg.AllowReReview,
		Metrics:       m,
	}, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, !cfg.IsDevelopment(), logger)
	userHandler := user.NewHandler(userService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	rbacHandler := rbac.NewHandler(rbacService, logger)

	authMiddleware := middleware.AuthMiddleware(tokens, userService)

	var idempotency gin.HandlerFunc
	if rdb != nil {
		idempotency = middleware.Idempotency(rdb, idempotencyTTL)
	}

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, authMiddleware)
		user.RegisterRoutes(api, userHandler, authMiddleware, rbacService)
		leave.RegisterRoutes(api, leaveHandler, authMiddleware, rbacService, idempotency)
		rbac.RegisterRoutes(api, rbacHandler, authMiddleware)
	}

	return rbacService, nil
}
