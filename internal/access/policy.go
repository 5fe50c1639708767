package access

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrDenied = errors.New("access denied")

// Directory answers manager relationship questions from live data.
type Directory interface {
	ReportIDs(ctx context.Context, managerID uuid.UUID) ([]uuid.UUID, error)
	// ManagerOf returns uuid.Nil when the user has no manager or does not exist.
	ManagerOf(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}

// Scope is the set of owners whose leave records a caller may list.
type Scope struct {
	all bool
	ids []uuid.UUID
}

func AllOwners() Scope {
	return Scope{all: true}
}

func Owners(ids ...uuid.UUID) Scope {
	return Scope{ids: ids}
}

func (s Scope) All() bool {
	return s.all
}

func (s Scope) EmployeeIDs() []uuid.UUID {
	return s.ids
}

func (s Scope) Contains(id uuid.UUID) bool {
	if s.all {
		return true
	}
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Policy holds the per-role leave rules. The set of implementations is closed.
type Policy interface {
	Role() Role
	CanCreate() bool
	// ListScope returns ErrDenied for roles without a scoped listing.
	ListScope(ctx context.Context) (Scope, error)
	CanView(ctx context.Context, ownerID uuid.UUID) (bool, error)
	CanReview(ctx context.Context, ownerID uuid.UUID) (bool, error)
	CanDelete(ownerID uuid.UUID) bool

	sealed()
}

func For(caller Caller, dir Directory) Policy {
	switch caller.Role {
	case RoleEmployee:
		return employeePolicy{id: caller.ID}
	case RoleManager:
		return managerPolicy{id: caller.ID, dir: dir}
	case RoleAdmin:
		return adminPolicy{}
	default:
		return denyPolicy{}
	}
}

type employeePolicy struct {
	id uuid.UUID
}

func (employeePolicy) Role() Role      { return RoleEmployee }
func (employeePolicy) CanCreate() bool { return true }
func (employeePolicy) sealed()         {}

func (employeePolicy) ListScope(context.Context) (Scope, error) {
	return Scope{}, ErrDenied
}

func (p employeePolicy) CanView(_ context.Context, ownerID uuid.UUID) (bool, error) {
	return ownerID == p.id, nil
}

func (employeePolicy) CanReview(context.Context, uuid.UUID) (bool, error) {
	return false, nil
}

func (p employeePolicy) CanDelete(ownerID uuid.UUID) bool {
	return ownerID == p.id
}

type managerPolicy struct {
	id  uuid.UUID
	dir Directory
}

func (managerPolicy) Role() Role      { return RoleManager }
func (managerPolicy) CanCreate() bool { return true }
func (managerPolicy) sealed()         {}

func (p managerPolicy) ListScope(ctx context.Context) (Scope, error) {
	ids, err := p.dir.ReportIDs(ctx, p.id)
	if err != nil {
		return Scope{}, err
	}
	return Owners(ids...), nil
}

func (p managerPolicy) CanView(ctx context.Context, ownerID uuid.UUID) (bool, error) {
	if ownerID == p.id {
		return true, nil
	}
	return p.manages(ctx, ownerID)
}

func (p managerPolicy) CanReview(ctx context.Context, ownerID uuid.UUID) (bool, error) {
	return p.manages(ctx, ownerID)
}

func (p managerPolicy) CanDelete(ownerID uuid.UUID) bool {
	return ownerID == p.id
}

func (p managerPolicy) manages(ctx context.Context, ownerID uuid.UUID) (bool, error) {
	managerID, err := p.dir.ManagerOf(ctx, ownerID)
	if err != nil {
		return false, err
	}
	return managerID != uuid.Nil && managerID == p.id, nil
}

// Admins are not scoped by reporting lines. They may review any record but cannot file leave.
type adminPolicy struct{}

func (adminPolicy) Role() Role      { return RoleAdmin }
func (adminPolicy) CanCreate() bool { return false }
func (adminPolicy) sealed()         {}

func (adminPolicy) ListScope(context.Context) (Scope, error) {
	return AllOwners(), nil
}

func (adminPolicy) CanView(context.Context, uuid.UUID) (bool, error)   { return true, nil }
func (adminPolicy) CanReview(context.Context, uuid.UUID) (bool, error) { return true, nil }
func (adminPolicy) CanDelete(uuid.UUID) bool                           { return true }

type denyPolicy struct{}

func (denyPolicy) Role() Role      { return "" }
func (denyPolicy) CanCreate() bool { return false }
func (denyPolicy) sealed()         {}

func (denyPolicy) ListScope(context.Context) (Scope, error) {
	return Scope{}, ErrDenied
}

func (denyPolicy) CanView(context.Context, uuid.UUID) (bool, error)   { return false, nil }
func (denyPolicy) CanReview(context.Context, uuid.UUID) (bool, error) { return false, nil }
func (denyPolicy) CanDelete(uuid.UUID) bool                           { return false }
