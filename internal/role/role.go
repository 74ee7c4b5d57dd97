package role

import (
	"github.com/yaojerry/office-admin/internal/core/datamodel/identity"
)

// Repository is the data access surface for roles and permissions.
type Repository interface {
	ListRoles() ([]identity.Role, error)
	GetRoleByID(id int64) (*identity.Role, error)
	GetRoleByName(name string) (*identity.Role, error)
	CreateRole(role *identity.Role) error
	UpdateRole(role *identity.Role) error
	// DeleteRole removes the role plus its user and permission links in one
	// transaction.
	DeleteRole(id int64) error

	ListPermissions() ([]identity.Permission, error)
	GetPermissionByID(id int64) (*identity.Permission, error)
	GetPermissionByName(name string) (*identity.Permission, error)
	GetPermissionsByIDs(ids []int64) ([]identity.Permission, error)
	CreatePermission(perm *identity.Permission) error
	DeletePermission(id int64) error

	// GrantPermissions adds the given permissions to the role transactionally.
	GrantPermissions(roleID int64, permissionIDs []int64) error
	// RevokePermission removes a single grant. Removing an absent grant is
	// not an error.
	RevokePermission(roleID, permissionID int64) error
}

type View struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Permissions []PermissionView `json:"permissions,omitempty"`
}

type PermissionView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func toView(r *identity.Role) *View {
	v := &View{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
	}
	for _, p := range r.Permissions {
		v.Permissions = append(v.Permissions, PermissionView{ID: p.ID, Name: p.Name, Description: p.Description})
	}
	return v
}

func toPermissionView(p *identity.Permission) *PermissionView {
	return &PermissionView{ID: p.ID, Name: p.Name, Description: p.Description}
}
