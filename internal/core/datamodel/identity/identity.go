package identity

import "time"

// Seeded role names. The seeder guarantees they exist before the first login.
const (
	RoleAdmin       = "admin"
	RoleUser        = "user"
	RoleNoticeAdmin = "notice_admin"
)

// Seeded permission names.
const (
	PermUserManage       = "user:manage"
	PermRoleManage       = "role:manage"
	PermDepartmentManage = "department:manage"
	PermNoticePublish    = "notice:publish"
	PermNoticeManage     = "notice:manage"
)

type User struct {
	ID           int64        `gorm:"primaryKey"`
	Username     string       `gorm:"column:username;uniqueIndex;not null"`
	Email        string       `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string       `gorm:"column:password_hash;not null"`
	DisplayName  string       `gorm:"column:display_name"`
	Phone        string       `gorm:"column:phone"`
	Avatar       *string      `gorm:"column:avatar"`
	Roles        []Role       `gorm:"many2many:user_roles;"`
	Departments  []Department `gorm:"many2many:user_departments;"`
	CreatedAt    time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }

type Role struct {
	ID          int64        `gorm:"primaryKey"`
	Name        string       `gorm:"column:name;uniqueIndex;not null"`
	Description string       `gorm:"column:description"`
	Permissions []Permission `gorm:"many2many:role_permissions;"`
	CreatedAt   time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}

func (Role) TableName() string { return "roles" }

type Permission struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Permission) TableName() string { return "permissions" }

// Department is at most two levels deep: a department with a non-null
// ParentID can never itself be a parent.
type Department struct {
	ID          int64       `gorm:"primaryKey"`
	Name        string      `gorm:"column:name;uniqueIndex;not null"`
	Description string      `gorm:"column:description"`
	ParentID    *int64      `gorm:"column:parent_id;index"`
	Parent      *Department `gorm:"foreignKey:ParentID;references:ID"`
	CreatedAt   time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

func (Department) TableName() string { return "departments" }

type UserRole struct {
	UserID int64 `gorm:"column:user_id;primaryKey"`
	RoleID int64 `gorm:"column:role_id;primaryKey"`
}

func (UserRole) TableName() string { return "user_roles" }

type UserDepartment struct {
	UserID       int64 `gorm:"column:user_id;primaryKey"`
	DepartmentID int64 `gorm:"column:department_id;primaryKey"`
}

func (UserDepartment) TableName() string { return "user_departments" }

type RolePermission struct {
	RoleID       int64 `gorm:"column:role_id;primaryKey"`
	PermissionID int64 `gorm:"column:permission_id;primaryKey"`
}

func (RolePermission) TableName() string { return "role_permissions" }
