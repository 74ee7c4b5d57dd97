package role

import "github.com/yaojerry/office-admin/internal"

type CreateRoleDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (d CreateRoleDTO) Validate() error {
	if d.Name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateRoleDTO struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type GrantPermissionsDTO struct {
	PermissionIDs []int64 `json:"permissionIds"`
}

func (d GrantPermissionsDTO) Validate() error {
	if len(d.PermissionIDs) == 0 {
		return internal.NewValidationFieldError("permissionIds", "permissionIds must be a non-empty array", internal.ErrCodeValidationFailed)
	}
	return nil
}

type CreatePermissionDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (d CreatePermissionDTO) Validate() error {
	if d.Name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
