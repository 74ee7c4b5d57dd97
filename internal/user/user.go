package user

import (
	"github.com/yaojerry/office-admin/internal/core/datamodel/identity"
)

type Repository interface {
	List() ([]identity.User, error)
	GetByID(id int64) (*identity.User, error)
	GetByUsername(username string) (*identity.User, error)
	GetByEmail(email string) (*identity.User, error)
	// Create persists the user and its role/department memberships in one
	// transaction.
	Create(user *identity.User, roleIDs, departmentIDs []int64) error
	// Update persists field changes; non-nil roleIDs or departmentIDs replace
	// the full membership set.
	Update(user *identity.User, roleIDs, departmentIDs *[]int64) error
	// Delete removes the user and all of its join rows transactionally.
	Delete(id int64) error
	CountRoles(ids []int64) (int64, error)
	CountDepartments(ids []int64) (int64, error)
	UpdateAvatar(userID int64, avatar string) error
}

type View struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Phone       string    `json:"phone,omitempty"`
	Avatar      *string   `json:"avatar"`
	Roles       []RefView `json:"roles"`
	Departments []RefView `json:"departments"`
}

type RefView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProfileView is the self-service shape; it omits role internals.
type ProfileView struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	DisplayName string  `json:"displayName"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone,omitempty"`
	Avatar      *string `json:"avatar"`
}

func toView(u *identity.User) *View {
	v := &View{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Phone:       u.Phone,
		Avatar:      u.Avatar,
		Roles:       []RefView{},
		Departments: []RefView{},
	}
	for _, r := range u.Roles {
		v.Roles = append(v.Roles, RefView{ID: r.ID, Name: r.Name})
	}
	for _, d := range u.Departments {
		v.Departments = append(v.Departments, RefView{ID: d.ID, Name: d.Name})
	}
	return v
}

func toProfileView(u *identity.User) *ProfileView {
	return &ProfileView{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Phone:       u.Phone,
		Avatar:      u.Avatar,
	}
}
