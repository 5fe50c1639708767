package rbac

type RolePermission struct {
	Role     string `gorm:"column:role;primaryKey"`
	Resource string `gorm:"column:resource;primaryKey"`
	Action   string `gorm:"column:action;primaryKey"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

// DefaultPolicy is used when the role_permissions table is empty.
// The seed migration inserts the same rows.
var DefaultPolicy = []RolePermission{
	{"employee", "leave", "create"},
	{"employee", "leave", "read_own"},
	{"employee", "leave", "read"},
	{"employee", "leave", "delete"},

	{"manager", "leave", "create"},
	{"manager", "leave", "read_own"},
	{"manager", "leave", "read"},
	{"manager", "leave", "read_all"},
	{"manager", "leave", "review"},
	{"manager", "leave", "delete"},

	{"admin", "leave", "read_own"},
	{"admin", "leave", "read"},
	{"admin", "leave", "read_all"},
	{"admin", "leave", "review"},
	{"admin", "leave", "delete"},
	{"admin", "user", "read"},
	{"admin", "user", "update"},
	{"admin", "user", "delete"},
}
