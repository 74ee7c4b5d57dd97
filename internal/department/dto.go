package department

import (
	"encoding/json"

	"github.com/yaojerry/office-admin/internal"
)

type CreateDepartmentDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    *int64 `json:"parentId"`
}

func (d CreateDepartmentDTO) Validate() error {
	if d.Name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// NullableID distinguishes an absent parentId field from an explicit null,
// since updating to a null parent detaches the department from its tree.
type NullableID struct {
	Set   bool
	Value *int64
}

func (n *NullableID) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Value = nil
		return nil
	}
	var v int64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

type UpdateDepartmentDTO struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	ParentID    NullableID `json:"parentId"`
}
