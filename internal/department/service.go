package department

import (
	"log/slog"

	"github.com/yaojerry/office-admin/internal"
	"github.com/yaojerry/office-admin/internal/core/datamodel/identity"
)

// Service enforces the department rules: unique names, and a hierarchy at
// most two levels deep.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List() ([]*View, error) {
	depts, err := s.repo.List()
	if err != nil {
		s.logger.Error("failed to list departments", "error", err)
		return nil, internal.NewInternalError("failed to list departments", err)
	}

	views := make([]*View, 0, len(depts))
	for i := range depts {
		views = append(views, toView(&depts[i]))
	}
	return views, nil
}

func (s *Service) GetByID(id int64) (*View, error) {
	dept, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("department not found", internal.ErrCodeDepartmentNotFound)
	}
	return toView(dept), nil
}

func (s *Service) Create(dto CreateDepartmentDTO) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByName(dto.Name); err == nil && existing != nil {
		return nil, internal.NewConflictError("department name already exists", internal.ErrCodeDuplicateName)
	}

	if dto.ParentID != nil {
		if err := s.checkParent(*dto.ParentID, 0); err != nil {
			return nil, err
		}
	}

	dept := &identity.Department{
		Name:        dto.Name,
		Description: dto.Description,
		ParentID:    dto.ParentID,
	}
	if err := s.repo.Create(dept); err != nil {
		s.logger.Error("failed to create department", "name", dto.Name, "error", err)
		return nil, internal.NewInternalError("failed to create department", err)
	}

	s.logger.Info("department created", "department_id", dept.ID, "name", dept.Name)
	return toView(dept), nil
}

func (s *Service) Update(id int64, dto UpdateDepartmentDTO) (*View, error) {
	dept, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("department not found", internal.ErrCodeDepartmentNotFound)
	}

	if dto.Name != nil && *dto.Name != dept.Name {
		if existing, err := s.repo.GetByName(*dto.Name); err == nil && existing != nil {
			return nil, internal.NewConflictError("department name already exists", internal.ErrCodeDuplicateName)
		}
		dept.Name = *dto.Name
	}
	if dto.Description != nil {
		dept.Description = *dto.Description
	}

	if dto.ParentID.Set {
		if dto.ParentID.Value != nil {
			if *dto.ParentID.Value == id {
				return nil, internal.NewValidationError("a department cannot be its own parent", internal.ErrCodeSelfParent)
			}
			if err := s.checkParent(*dto.ParentID.Value, id); err != nil {
				return nil, err
			}
			// becoming a child is only allowed for departments without
			// children, or the tree would exceed two levels
			hasChildren, err := s.repo.HasChildren(id)
			if err != nil {
				return nil, internal.NewInternalError("failed to check children", err)
			}
			if hasChildren {
				return nil, internal.NewValidationError("department with sub-departments cannot be nested", internal.ErrCodeDepartmentDepth)
			}
		}
		dept.ParentID = dto.ParentID.Value
	}

	if err := s.repo.Update(dept); err != nil {
		s.logger.Error("failed to update department", "department_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update department", err)
	}
	return toView(dept), nil
}

func (s *Service) Delete(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return internal.NewNotFoundError("department not found", internal.ErrCodeDepartmentNotFound)
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete department", "department_id", id, "error", err)
		return internal.NewInternalError("failed to delete department", err)
	}

	s.logger.Info("department deleted", "department_id", id)
	return nil
}

// checkParent validates a prospective parent: it must exist, must not be the
// department itself, and must not already be a child.
func (s *Service) checkParent(parentID, selfID int64) error {
	if parentID == selfID && selfID != 0 {
		return internal.NewValidationError("a department cannot be its own parent", internal.ErrCodeSelfParent)
	}

	parent, err := s.repo.GetByID(parentID)
	if err != nil {
		return internal.NewValidationError("parent department does not exist", internal.ErrCodeDepartmentNotFound)
	}
	if parent.ParentID != nil {
		return internal.NewValidationError("department hierarchy cannot exceed two levels", internal.ErrCodeDepartmentDepth)
	}
	return nil
}
