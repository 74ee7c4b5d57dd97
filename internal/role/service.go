package role

import (
	"log/slog"

	"github.com/yaojerry/office-admin/internal"
	"github.com/yaojerry/office-admin/internal/core/datamodel/identity"
)

// Service handles role and permission administration.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) ListRoles() ([]*View, error) {
	roles, err := s.repo.ListRoles()
	if err != nil {
		s.logger.Error("failed to list roles", "error", err)
		return nil, internal.NewInternalError("failed to list roles", err)
	}

	views := make([]*View, 0, len(roles))
	for i := range roles {
		views = append(views, toView(&roles[i]))
	}
	return views, nil
}

func (s *Service) CreateRole(dto CreateRoleDTO) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetRoleByName(dto.Name); err == nil && existing != nil {
		return nil, internal.NewConflictError("role name already exists", internal.ErrCodeDuplicateName)
	}

	role := &identity.Role{Name: dto.Name, Description: dto.Description}
	if err := s.repo.CreateRole(role); err != nil {
		s.logger.Error("failed to create role", "name", dto.Name, "error", err)
		return nil, internal.NewInternalError("failed to create role", err)
	}

	s.logger.Info("role created", "role_id", role.ID, "name", role.Name)
	return toView(role), nil
}

func (s *Service) UpdateRole(id int64, dto UpdateRoleDTO) (*View, error) {
	role, err := s.repo.GetRoleByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("role not found", internal.ErrCodeRoleNotFound)
	}

	if dto.Name != nil && *dto.Name != role.Name {
		if existing, err := s.repo.GetRoleByName(*dto.Name); err == nil && existing != nil {
			return nil, internal.NewConflictError("role name already exists", internal.ErrCodeDuplicateName)
		}
		role.Name = *dto.Name
	}
	if dto.Description != nil {
		role.Description = *dto.Description
	}

	if err := s.repo.UpdateRole(role); err != nil {
		s.logger.Error("failed to update role", "role_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update role", err)
	}
	return toView(role), nil
}

func (s *Service) DeleteRole(id int64) error {
	if _, err := s.repo.GetRoleByID(id); err != nil {
		return internal.NewNotFoundError("role not found", internal.ErrCodeRoleNotFound)
	}

	if err := s.repo.DeleteRole(id); err != nil {
		s.logger.Error("failed to delete role", "role_id", id, "error", err)
		return internal.NewInternalError("failed to delete role", err)
	}

	s.logger.Info("role deleted", "role_id", id)
	return nil
}

// GrantPermissions adds the listed permissions to a role. Every id must
// resolve or the whole grant is rejected.
func (s *Service) GrantPermissions(roleID int64, dto GrantPermissionsDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	if _, err := s.repo.GetRoleByID(roleID); err != nil {
		return internal.NewNotFoundError("role not found", internal.ErrCodeRoleNotFound)
	}

	perms, err := s.repo.GetPermissionsByIDs(dto.PermissionIDs)
	if err != nil {
		s.logger.Error("failed to resolve permissions", "role_id", roleID, "error", err)
		return internal.NewInternalError("failed to resolve permissions", err)
	}
	if len(perms) != len(dedupe(dto.PermissionIDs)) {
		return internal.NewValidationError("some permission ids are invalid", internal.ErrCodeUnknownIDs)
	}

	if err := s.repo.GrantPermissions(roleID, dto.PermissionIDs); err != nil {
		s.logger.Error("failed to grant permissions", "role_id", roleID, "error", err)
		return internal.NewInternalError("failed to grant permissions", err)
	}

	s.logger.Info("permissions granted", "role_id", roleID, "permission_ids", dto.PermissionIDs)
	return nil
}

func (s *Service) RevokePermission(roleID, permissionID int64) error {
	if _, err := s.repo.GetRoleByID(roleID); err != nil {
		return internal.NewNotFoundError("role not found", internal.ErrCodeRoleNotFound)
	}
	if _, err := s.repo.GetPermissionByID(permissionID); err != nil {
		return internal.NewNotFoundError("permission not found", internal.ErrCodePermissionNotFound)
	}

	if err := s.repo.RevokePermission(roleID, permissionID); err != nil {
		s.logger.Error("failed to revoke permission", "role_id", roleID, "permission_id", permissionID, "error", err)
		return internal.NewInternalError("failed to revoke permission", err)
	}
	return nil
}

func (s *Service) ListPermissions() ([]*PermissionView, error) {
	perms, err := s.repo.ListPermissions()
	if err != nil {
		s.logger.Error("failed to list permissions", "error", err)
		return nil, internal.NewInternalError("failed to list permissions", err)
	}

	views := make([]*PermissionView, 0, len(perms))
	for i := range perms {
		views = append(views, toPermissionView(&perms[i]))
	}
	return views, nil
}

func (s *Service) CreatePermission(dto CreatePermissionDTO) (*PermissionView, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetPermissionByName(dto.Name); err == nil && existing != nil {
		return nil, internal.NewConflictError("permission name already exists", internal.ErrCodeDuplicateName)
	}

	perm := &identity.Permission{Name: dto.Name, Description: dto.Description}
	if err := s.repo.CreatePermission(perm); err != nil {
		s.logger.Error("failed to create permission", "name", dto.Name, "error", err)
		return nil, internal.NewInternalError("failed to create permission", err)
	}
	return toPermissionView(perm), nil
}

func (s *Service) DeletePermission(id int64) error {
	if _, err := s.repo.GetPermissionByID(id); err != nil {
		return internal.NewNotFoundError("permission not found", internal.ErrCodePermissionNotFound)
	}

	if err := s.repo.DeletePermission(id); err != nil {
		s.logger.Error("failed to delete permission", "permission_id", id, "error", err)
		return internal.NewInternalError("failed to delete permission", err)
	}
	return nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
