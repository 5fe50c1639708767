package rbac

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authMiddleware gin.HandlerFunc) {
	group := r.Group("/rbac", authMiddleware)
	{
		group.GET("/permissions", handler.Permissions)
		group.POST("/enforce", handler.Enforce)
	}
}
