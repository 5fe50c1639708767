package leave

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts /leaves. idempotency may be nil when no Redis is configured.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authMiddleware gin.HandlerFunc,
	rbacService rbac.Service,
	idempotency gin.HandlerFunc,
) {
	leaves := r.Group("/leaves", authMiddleware)

	create := []gin.HandlerFunc{
		middleware.RateLimitByUser(1, 5),
		middleware.RBACAuthorize(rbacService, "leave", "create"),
	}
	if idempotency != nil {
		create = append(create, idempotency)
	}
	leaves.POST("", append(create, handler.Create)...)

	leaves.GET("/me",
		middleware.RateLimitByUser(3, 10),
		middleware.RBACAuthorize(rbacService, "leave", "read_own"),
		handler.ListMine,
	)
	leaves.GET("",
		middleware.RateLimitByUser(3, 10),
		middleware.RBACAuthorize(rbacService, "leave", "read_all"),
		handler.ListScoped,
	)
	leaves.GET("/:id",
		middleware.RateLimitByUser(3, 10),
		middleware.RBACAuthorize(rbacService, "leave", "read"),
		handler.GetByID,
	)
	leaves.PUT("/:id/status",
		middleware.RateLimitByUser(1, 5),
		middleware.RBACAuthorize(rbacService, "leave", "review"),
		handler.Review,
	)
	leaves.DELETE("/:id",
		middleware.RateLimitByUser(1, 5),
		middleware.RBACAuthorize(rbacService, "leave", "delete"),
		handler.Delete,
	)
}
