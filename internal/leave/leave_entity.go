package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	TypeSick   = "sick"
	TypeCasual = "casual"
	TypeAnnual = "annual"
	TypeUnpaid = "unpaid"
)

// Leave has no foreign key on employee_id: records outlive a deleted owner.
type Leave struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"column:employee_id;type:uuid;not null;index:idx_leaves_employee_created"`

	LeaveType string    `gorm:"column:leave_type;type:varchar(20);not null"`
	StartDate time.Time `gorm:"column:start_date;type:date;not null"`
	EndDate   time.Time `gorm:"column:end_date;type:date;not null"`
	Reason    string    `gorm:"column:reason;type:varchar(500);not null"`

	Status        string     `gorm:"column:status;type:varchar(20);not null;default:'pending';index"`
	ReviewedBy    *uuid.UUID `gorm:"column:reviewed_by;type:uuid"`
	ReviewedAt    *time.Time `gorm:"column:reviewed_at"`
	ReviewComment string     `gorm:"column:review_comment;type:text;not null;default:''"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index:idx_leaves_employee_created"`

	Employee *EmployeeSummary `gorm:"foreignKey:EmployeeID;references:ID"`
	Reviewer *ReviewerSummary `gorm:"foreignKey:ReviewedBy;references:ID"`
}

func (Leave) TableName() string {
	return "leaves"
}

// EmployeeSummary is the owner's display data joined from users.
type EmployeeSummary struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name       string    `gorm:"column:name"`
	Email      string    `gorm:"column:email"`
	Department string    `gorm:"column:department"`
}

func (EmployeeSummary) TableName() string {
	return "users"
}

type ReviewerSummary struct {
	ID   uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name string    `gorm:"column:name"`
}

func (ReviewerSummary) TableName() string {
	return "users"
}
