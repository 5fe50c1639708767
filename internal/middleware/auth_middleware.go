package middleware

import (
	"context"
	"errors"
	"strings"

	"go-leave/internal/access"
	autherrors "go-leave/internal/auth/errors"
	"go-leave/internal/auth/token"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	AccessTokenCookie = "access_token"

	callerKey = "caller"
)

type TokenParser interface {
	Parse(raw string) (token.Claims, error)
}

// CallerResolver loads the current role and identity of a token subject.
type CallerResolver interface {
	ResolveCaller(ctx context.Context, userID uuid.UUID) (access.Caller, error)
}

func abortWith(c *gin.Context, err *apperror.AppError) {
	response.Error(c, err.HTTPStatus, err.Code, err.Message, nil)
	c.Abort()
}

// AuthMiddleware accepts a Bearer header or the access_token cookie. The role in the
// token is not trusted; the caller is reloaded on every request.
func AuthMiddleware(tokens TokenParser, resolver CallerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			abortWith(c, autherrors.ErrTokenNotFound)
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			if errors.Is(err, token.ErrExpired) {
				abortWith(c, autherrors.ErrTokenExpired)
				return
			}
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		caller, err := resolver.ResolveCaller(c.Request.Context(), claims.UserID)
		if err != nil {
			if appErr, ok := apperror.As(err); ok && appErr.HTTPStatus < 500 {
				abortWith(c, autherrors.ErrAccountNotFound)
				return
			}
			contextutil.GetLogger(c.Request.Context(), nil).Error("resolve caller failed", zap.Error(err))
			httpErr := apperror.ToHTTP(err)
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
			c.Abort()
			return
		}

		SetCaller(c, caller)
		c.Next()
	}
}

// SetCaller stores the caller on the gin context and tags the request logger with it.
func SetCaller(c *gin.Context, caller access.Caller) {
	uid := caller.ID.String()
	c.Set(callerKey, caller)
	c.Set("user_id", uid)
	c.Set("role", caller.Role.String())

	ctx := c.Request.Context()
	ctx = contextutil.WithUserID(ctx, uid)
	ctx = contextutil.WithLogger(ctx, contextutil.GetLogger(ctx, zap.L()).With(zap.String("user_id", uid)))
	c.Request = c.Request.WithContext(ctx)
}

func CallerFrom(c *gin.Context) (access.Caller, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return access.Caller{}, false
	}
	caller, ok := v.(access.Caller)
	if !ok || caller.IsZero() {
		return access.Caller{}, false
	}
	return caller, true
}
