package user

import (
	"context"
	"strings"

	"go-leave/internal/access"
	"go-leave/internal/shared/contextutil"
	usererrors "go-leave/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context, caller access.Caller) ([]UserResponse, error)
	GetManagers(ctx context.Context) ([]ManagerResponse, error)
	Update(ctx context.Context, caller access.Caller, id string, req UpdateUserRequest) (UserResponse, error)
	Delete(ctx context.Context, caller access.Caller, id string) error

	ResolveCaller(ctx context.Context, userID uuid.UUID) (access.Caller, error)
}

type service struct {
	repo     Repository
	managers singleflight.Group
	logger   *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, logger: l}
}

func requireAdmin(caller access.Caller) error {
	if caller.Role != access.RoleAdmin {
		return usererrors.ErrForbidden
	}
	return nil
}

func (s *service) GetAll(ctx context.Context, caller access.Caller) ([]UserResponse, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	users, err := s.repo.FindAll(ctx)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("failed to list users", zap.Error(err))
		return nil, MapRepositoryError(err)
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = MapToResponse(u)
	}
	return resp, nil
}

// GetManagers collapses concurrent identical lookups into one query. Results are never cached.
func (s *service) GetManagers(ctx context.Context) ([]ManagerResponse, error) {
	v, err, _ := s.managers.Do("managers", func() (interface{}, error) {
		// Shared by every waiting caller, so one caller going away must not fail the rest.
		users, err := s.repo.FindByRole(context.WithoutCancel(ctx), access.RoleManager)
		if err != nil {
			return nil, err
		}
		resp := make([]ManagerResponse, len(users))
		for i, u := range users {
			resp[i] = ManagerResponse{
				ID:         u.ID.String(),
				Name:       u.Name,
				Department: u.Department,
			}
		}
		return resp, nil
	})
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("failed to list managers", zap.Error(err))
		return nil, MapRepositoryError(err)
	}

	shared := v.([]ManagerResponse)
	out := make([]ManagerResponse, len(shared))
	copy(out, shared)
	return out, nil
}

func (s *service) Update(ctx context.Context, caller access.Caller, id string, req UpdateUserRequest) (UserResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	if err := requireAdmin(caller); err != nil {
		return UserResponse{}, err
	}

	userID, err := uuid.Parse(id)
	if err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return UserResponse{}, MapRepositoryError(err)
	}

	if req.Role != nil {
		role, err := access.ParseRole(*req.Role)
		if err != nil {
			return UserResponse{}, usererrors.ErrInvalidRole
		}
		if role != u.Role {
			if u.ID == caller.ID {
				return UserResponse{}, usererrors.ErrCannotChangeOwnRole
			}
			if u.Role == access.RoleManager {
				reports, err := s.repo.CountByManager(ctx, u.ID)
				if err != nil {
					return UserResponse{}, MapRepositoryError(err)
				}
				if reports > 0 {
					l.Warn("demotion blocked by direct reports",
						zap.String("user_id", u.ID.String()),
						zap.Int64("reports", reports),
					)
					return UserResponse{}, usererrors.ErrManagerHasReports
				}
			}
		}
		u.Role = role
	}

	if req.Department != nil {
		u.Department = strings.TrimSpace(*req.Department)
	}

	if req.ManagerID.Set {
		raw := ""
		if !req.ManagerID.Cleared() {
			raw = *req.ManagerID.Value
		}
		managerID, err := ResolveManager(ctx, s.repo, raw, u.ID)
		if err != nil {
			return UserResponse{}, err
		}
		u.ManagerID = managerID
	}

	if err := s.repo.Update(ctx, u); err != nil {
		l.Error("failed to update user", zap.String("user_id", id), zap.Error(err))
		return UserResponse{}, MapRepositoryError(err)
	}

	updated, err := s.repo.FindByID(ctx, u.ID)
	if err != nil {
		return UserResponse{}, MapRepositoryError(err)
	}

	l.Info("user updated",
		zap.String("user_id", id),
		zap.String("role", updated.Role.String()),
		zap.String("actor_id", caller.ID.String()),
	)
	return MapToResponse(*updated), nil
}

func (s *service) Delete(ctx context.Context, caller access.Caller, id string) error {
	l := contextutil.GetLogger(ctx, s.logger)

	if err := requireAdmin(caller); err != nil {
		return err
	}

	userID, err := uuid.Parse(id)
	if err != nil {
		return usererrors.ErrInvalidUserID
	}
	if userID == caller.ID {
		return usererrors.ErrCannotDeleteSelf
	}

	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		return MapRepositoryError(err)
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		l.Error("failed to delete user", zap.String("user_id", id), zap.Error(err))
		return MapRepositoryError(err)
	}

	l.Info("user deleted", zap.String("user_id", id), zap.String("actor_id", caller.ID.String()))
	return nil
}

// ResolveCaller loads the live identity behind a token.
func (s *service) ResolveCaller(ctx context.Context, userID uuid.UUID) (access.Caller, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return access.Caller{}, MapRepositoryError(err)
	}
	if !u.Role.Valid() {
		return access.Caller{}, usererrors.ErrInvalidRole
	}
	return u.Caller(), nil
}
