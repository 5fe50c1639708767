package user

import (
	"context"
	"errors"

	"go-leave/internal/access"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Directory answers reporting-line questions for the leave policies. Nothing is cached.
type Directory struct {
	repo Repository
}

var _ access.Directory = (*Directory)(nil)

func NewDirectory(repo Repository) *Directory {
	return &Directory{repo: repo}
}

func (d *Directory) ReportIDs(ctx context.Context, managerID uuid.UUID) ([]uuid.UUID, error) {
	reports, err := d.repo.FindByManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(reports))
	for i, u := range reports {
		ids[i] = u.ID
	}
	return ids, nil
}

func (d *Directory) ManagerOf(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	u, err := d.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, nil
		}
		return uuid.Nil, err
	}
	if u.ManagerID == nil {
		return uuid.Nil, nil
	}
	return *u.ManagerID, nil
}
