package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go-leave/internal/access"
	autherrors "go-leave/internal/auth/errors"
	"go-leave/internal/auth/token"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/user"
	usererrors "go-leave/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (user.UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (user.UserResponse, error)

	CreateAdmin(ctx context.Context, req AdminRequest) (user.UserResponse, error)
}

type service struct {
	users      user.Repository
	tokens     *token.Manager
	bcryptCost int
	logger     *zap.Logger
}

func NewService(users user.Repository, tokens *token.Manager, bcryptCost int, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &service{users: users, tokens: tokens, bcryptCost: bcryptCost, logger: l}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (user.UserResponse, error) {
	role := access.RoleEmployee
	if strings.TrimSpace(req.Role) != "" {
		parsed, err := access.ParseRole(req.Role)
		if err != nil || parsed == access.RoleAdmin {
			return user.UserResponse{}, autherrors.ErrRoleNotAllowed
		}
		role = parsed
	}

	u := &user.User{
		ID:         uuid.New(),
		Name:       strings.TrimSpace(req.Name),
		Email:      req.Email,
		Role:       role,
		Department: strings.TrimSpace(req.Department),
	}

	managerID, err := user.ResolveManager(ctx, s.users, req.ManagerID, u.ID)
	if err != nil {
		return user.UserResponse{}, err
	}
	u.ManagerID = managerID

	return s.create(ctx, u, req.Password)
}

func (s *service) CreateAdmin(ctx context.Context, req AdminRequest) (user.UserResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return user.UserResponse{}, apperror.RequiredField("name")
	}
	if strings.TrimSpace(req.Email) == "" {
		return user.UserResponse{}, apperror.RequiredField("email")
	}
	if len(req.Password) < 6 {
		return user.UserResponse{}, apperror.InvalidField("password")
	}

	return s.create(ctx, &user.User{
		ID:         uuid.New(),
		Name:       strings.TrimSpace(req.Name),
		Email:      req.Email,
		Role:       access.RoleAdmin,
		Department: strings.TrimSpace(req.Department),
	}, req.Password)
}

func (s *service) create(ctx context.Context, u *user.User, password string) (user.UserResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return user.UserResponse{}, apperror.Wrap(err, apperror.CodeInternalError, "Failed to hash password", http.StatusInternalServerError)
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Password = string(hashed)

	if err := s.users.Create(ctx, u); err != nil {
		mapped := user.MapRepositoryError(err)
		if errors.Is(mapped, usererrors.ErrUserAlreadyExists) {
			return user.UserResponse{}, autherrors.ErrEmailAlreadyRegistered
		}
		l.Error("failed to create user", zap.Error(err))
		return user.UserResponse{}, mapped
	}

	created, err := s.users.FindByID(ctx, u.ID)
	if err != nil {
		return user.UserResponse{}, user.MapRepositoryError(err)
	}

	l.Info("user registered",
		zap.String("user_id", created.ID.String()),
		zap.String("role", created.Role.String()),
	)
	return user.MapToResponse(*created), nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoginResponse{}, autherrors.ErrInvalidCredentials
		}
		return LoginResponse{}, user.MapRepositoryError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	signed, exp, err := s.tokens.Issue(u.ID, u.Role.String())
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("failed to issue token", zap.Error(err))
		return LoginResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return LoginResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresAt:   exp,
		User:        user.MapToResponse(*u),
	}, nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (user.UserResponse, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.UserResponse{}, autherrors.ErrAccountNotFound
		}
		return user.UserResponse{}, user.MapRepositoryError(err)
	}
	return user.MapToResponse(*u), nil
}
