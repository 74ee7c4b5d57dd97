package department

import (
	"github.com/yaojerry/office-admin/internal/core/datamodel/identity"
)

type Repository interface {
	List() ([]identity.Department, error)
	GetByID(id int64) (*identity.Department, error)
	GetByName(name string) (*identity.Department, error)
	Create(dept *identity.Department) error
	Update(dept *identity.Department) error
	// Delete removes the department, its children and all membership rows in
	// one transaction.
	Delete(id int64) error
	HasChildren(id int64) (bool, error)
}

type View struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ParentID    *int64 `json:"parentId"`
}

func toView(d *identity.Department) *View {
	return &View{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		ParentID:    d.ParentID,
	}
}
