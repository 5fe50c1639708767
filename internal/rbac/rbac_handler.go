package rbac

import (
	"net/http"
	"strings"

	"go-leave/internal/middleware"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("rbac.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("rbac request failed", zap.Int("status", httpErr.Status), zap.Error(err))
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// Permissions returns what the caller's role may do, for menu rendering.
func (h *Handler) Permissions(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		h.writeError(c, apperror.ErrUnauthorized)
		return
	}

	perms, err := h.service.Permissions(caller.Role.String())
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, PermissionsResponse{
		Role:        caller.Role.String(),
		Permissions: perms,
	}, nil)
}

// Enforce answers whether the caller may perform resource:action.
func (h *Handler) Enforce(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		h.writeError(c, apperror.ErrUnauthorized)
		return
	}

	var req EnforceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, apperror.MapValidationError(err))
		return
	}

	allowed, err := h.service.Enforce(
		caller.Role.String(),
		strings.TrimSpace(req.Resource),
		strings.TrimSpace(req.Action),
	)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, EnforceResponse{Allowed: allowed}, nil)
}
