package user

import (
	"context"
	"errors"
	"strings"

	"go-leave/internal/access"
	usererrors "go-leave/internal/user/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResolveManager validates a manager reference for the user selfID.
// An empty raw value means no manager.
func ResolveManager(ctx context.Context, repo Repository, raw string, selfID uuid.UUID) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	managerID, err := uuid.Parse(raw)
	if err != nil {
		return nil, usererrors.ErrInvalidManagerID
	}
	if managerID == selfID {
		return nil, usererrors.ErrSelfManager
	}

	m, err := repo.FindByID(ctx, managerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usererrors.ErrManagerNotFound
		}
		return nil, MapRepositoryError(err)
	}
	if m.Role != access.RoleManager {
		return nil, usererrors.ErrNotAManager
	}

	return &managerID, nil
}
