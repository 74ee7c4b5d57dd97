package user

import (
	"log/slog"

	"github.com/yaojerry/office-admin/internal"
	"github.com/yaojerry/office-admin/internal/core/datamodel/identity"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo       Repository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, bcryptCost: bcryptCost, logger: logger}
}

func (s *Service) List() ([]*View, error) {
	users, err := s.repo.List()
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}

	views := make([]*View, 0, len(users))
	for i := range users {
		views = append(views, toView(&users[i]))
	}
	return views, nil
}

func (s *Service) GetByID(id int64) (*View, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}
	return toView(u), nil
}

func (s *Service) Create(dto CreateUserDTO) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByUsername(dto.Username); err == nil && existing != nil {
		return nil, internal.NewConflictError("username already exists", internal.ErrCodeDuplicateUsername)
	}
	if existing, err := s.repo.GetByEmail(dto.Email); err == nil && existing != nil {
		return nil, internal.NewConflictError("email already exists", internal.ErrCodeDuplicateEmail)
	}

	if err := s.checkRefs(dto.Roles, dto.Departments); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	u := &identity.User{
		Username:     dto.Username,
		DisplayName:  dto.DisplayName,
		Email:        dto.Email,
		PasswordHash: string(hash),
		Phone:        dto.Phone,
	}
	if err := s.repo.Create(u, dto.Roles, dto.Departments); err != nil {
		s.logger.Error("failed to create user", "username", dto.Username, "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user created", "user_id", u.ID, "username", u.Username)
	return s.GetByID(u.ID)
}

func (s *Service) Update(id int64, dto UpdateUserDTO) (*View, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}

	if dto.Email != nil && *dto.Email != u.Email {
		if existing, err := s.repo.GetByEmail(*dto.Email); err == nil && existing != nil {
			return nil, internal.NewConflictError("email already exists", internal.ErrCodeDuplicateEmail)
		}
		u.Email = *dto.Email
	}
	if dto.DisplayName != nil {
		u.DisplayName = *dto.DisplayName
	}
	if dto.Phone != nil {
		u.Phone = *dto.Phone
	}
	if dto.Password != nil && *dto.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*dto.Password), s.bcryptCost)
		if err != nil {
			return nil, internal.NewInternalError("failed to hash password", err)
		}
		u.PasswordHash = string(hash)
	}

	var roles, depts []int64
	if dto.Roles != nil {
		roles = *dto.Roles
	}
	if dto.Departments != nil {
		depts = *dto.Departments
	}
	if err := s.checkRefs(roles, depts); err != nil {
		return nil, err
	}

	if err := s.repo.Update(u, dto.Roles, dto.Departments); err != nil {
		s.logger.Error("failed to update user", "user_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update user", err)
	}

	return s.GetByID(id)
}

func (s *Service) Delete(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete user", "user_id", id, "error", err)
		return internal.NewInternalError("failed to delete user", err)
	}

	s.logger.Info("user deleted", "user_id", id)
	return nil
}

func (s *Service) Profile(userID int64) (*ProfileView, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}
	return toProfileView(u), nil
}

func (s *Service) UpdateProfile(userID int64, dto UpdateProfileDTO) (*ProfileView, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}

	if dto.Email != nil && *dto.Email != u.Email {
		if existing, err := s.repo.GetByEmail(*dto.Email); err == nil && existing != nil {
			return nil, internal.NewConflictError("email already exists", internal.ErrCodeDuplicateEmail)
		}
		u.Email = *dto.Email
	}
	if dto.Phone != nil {
		u.Phone = *dto.Phone
	}
	if dto.Password != nil && *dto.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*dto.Password), s.bcryptCost)
		if err != nil {
			return nil, internal.NewInternalError("failed to hash password", err)
		}
		u.PasswordHash = string(hash)
	}

	if err := s.repo.Update(u, nil, nil); err != nil {
		s.logger.Error("failed to update profile", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to update profile", err)
	}
	return toProfileView(u), nil
}

func (s *Service) UpdateAvatar(userID int64, avatarPath string) error {
	if _, err := s.repo.GetByID(userID); err != nil {
		return internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}

	if err := s.repo.UpdateAvatar(userID, avatarPath); err != nil {
		s.logger.Error("failed to update avatar", "user_id", userID, "error", err)
		return internal.NewInternalError("failed to update avatar", err)
	}
	return nil
}

// checkRefs verifies that every referenced role and department id exists.
func (s *Service) checkRefs(roleIDs, departmentIDs []int64) error {
	if len(roleIDs) > 0 {
		count, err := s.repo.CountRoles(roleIDs)
		if err != nil {
			return internal.NewInternalError("failed to resolve roles", err)
		}
		if count != int64(len(dedupe(roleIDs))) {
			return internal.NewValidationError("some role ids are invalid", internal.ErrCodeUnknownIDs)
		}
	}
	if len(departmentIDs) > 0 {
		count, err := s.repo.CountDepartments(departmentIDs)
		if err != nil {
			return internal.NewInternalError("failed to resolve departments", err)
		}
		if count != int64(len(dedupe(departmentIDs))) {
			return internal.NewValidationError("some department ids are invalid", internal.ErrCodeUnknownIDs)
		}
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
