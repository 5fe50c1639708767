package user

import (
	"time"

	"go-leave/internal/access"

	"github.com/google/uuid"
)

type User struct {
	ID         uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	Name       string      `gorm:"column:name;type:varchar(255);not null"`
	Email      string      `gorm:"column:email;type:varchar(255);not null;uniqueIndex"`
	Password   string      `gorm:"column:password;type:text;not null"`
	Role       access.Role `gorm:"column:role;type:varchar(20);not null;default:employee"`
	Department string      `gorm:"column:department;type:varchar(100);not null;default:''"`
	ManagerID  *uuid.UUID  `gorm:"column:manager_id;type:uuid;index"`
	CreatedAt  time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time   `gorm:"column:updated_at;autoUpdateTime"`

	Manager *ManagerSummary `gorm:"foreignKey:ManagerID;references:ID"`
}

func (User) TableName() string {
	return "users"
}

// ManagerSummary is the slice of the manager row shown next to a user.
type ManagerSummary struct {
	ID    uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name  string    `gorm:"column:name"`
	Email string    `gorm:"column:email"`
}

func (ManagerSummary) TableName() string {
	return "users"
}

func (u User) Caller() access.Caller {
	return access.Caller{ID: u.ID, Role: u.Role}
}
