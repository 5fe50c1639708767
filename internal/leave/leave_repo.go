package leave

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Filter narrows FindAll. Unless AllEmployees is set, only EmployeeIDs are matched.
type Filter struct {
	AllEmployees bool
	EmployeeIDs  []uuid.UUID
	Status       string
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, l *Leave) error
	FindByID(ctx context.Context, id uuid.UUID) (*Leave, error)
	FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]Leave, error)
	FindAll(ctx context.Context, filter Filter) ([]Leave, error)
	Update(ctx context.Context, l *Leave) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Reviewer").
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]Leave, error) {
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Preload("Reviewer").
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

// filterScope restricts a query to the owners and status named by f.
func filterScope(f Filter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !f.AllEmployees {
			db = db.Where("employee_id IN ?", f.EmployeeIDs)
		}
		if f.Status != "" {
			db = db.Where("status = ?", f.Status)
		}
		return db
	}
}

func (r *repository) FindAll(ctx context.Context, filter Filter) ([]Leave, error) {
	leaves := []Leave{}
	if !filter.AllEmployees && len(filter.EmployeeIDs) == 0 {
		return leaves, nil
	}

	err := r.db.WithContext(ctx).
		Scopes(filterScope(filter)).
		Preload("Employee").
		Preload("Reviewer").
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) Update(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(l).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Leave{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
