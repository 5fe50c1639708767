package user

import (
	"net/http"

	"go-leave/internal/middleware"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc    Service
	logger *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("user.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.handler")
	}
	return &Handler{svc: service, logger: l}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("user request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetAll(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		h.writeError(c, apperror.ErrUnauthorized)
		return
	}

	resp, err := h.svc.GetAll(c.Request.Context(), caller)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.List(c, http.StatusOK, resp)
}

func (h *Handler) GetManagers(c *gin.Context) {
	resp, err := h.svc.GetManagers(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.List(c, http.StatusOK, resp)
}

func (h *Handler) Update(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		h.writeError(c, apperror.ErrUnauthorized)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, apperror.MapValidationError(err))
		return
	}

	res, err := h.svc.Update(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		h.writeError(c, apperror.ErrUnauthorized)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
