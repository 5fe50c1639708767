package bootstrap

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
	Uptime string            `json:"uptime"`
}

// HealthHandler pings the database and, when configured, Redis. rdb may be nil.
// Failure causes are logged, never returned.
func HealthHandler(db *sql.DB, rdb redis.Cmdable) gin.HandlerFunc {
	started := time.Now()
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		healthy := true
		checks := map[string]string{}

		log := contextutil.GetLogger(ctx, nil)

		if err := db.PingContext(ctx); err != nil {
			healthy = false
			checks["database"] = "error"
			log.Warn("health: database ping failed", zap.Error(err))
		} else {
			checks["database"] = "ok"
		}

		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				healthy = false
				checks["redis"] = "error"
				log.Warn("health: redis ping failed", zap.Error(err))
			} else {
				checks["redis"] = "ok"
			}
		}

		if !healthy {
			response.Error(c, http.StatusServiceUnavailable, apperror.CodeServiceUnavailable,
				"One or more dependencies are unavailable", checks)
			return
		}

		response.Success(c, http.StatusOK, HealthResponse{
			Status: "ok",
			Checks: checks,
			Uptime: time.Since(started).Round(time.Second).String(),
		}, nil)
	}
}
