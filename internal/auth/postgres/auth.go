package postgres

import (
	"errors"

	"github.com/yaojerry/office-admin/internal/auth"
	"github.com/yaojerry/office-admin/internal/core/datamodel/identity"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByUsername(username string) (*auth.StoredUser, error) {
	var user identity.User
	err := r.db.Preload("Roles").Preload("Departments").
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}

	stored := &auth.StoredUser{
		ID:           user.ID,
		Username:     user.Username,
		DisplayName:  user.DisplayName,
		PasswordHash: user.PasswordHash,
	}
	for _, role := range user.Roles {
		stored.Roles = append(stored.Roles, role.Name)
	}
	for _, dept := range user.Departments {
		stored.Departments = append(stored.Departments, dept.Name)
	}
	return stored, nil
}

// GetIdentity loads the user with current roles and the permissions those
// roles grant. Called once per authenticated request.
func (r *Repository) GetIdentity(userID int64) (*auth.Identity, error) {
	var user identity.User
	err := r.db.Preload("Roles.Permissions").
		Where("id = ?", userID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}

	id := &auth.Identity{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
	}

	seen := make(map[string]bool)
	for _, role := range user.Roles {
		id.Roles = append(id.Roles, role.Name)
		for _, perm := range role.Permissions {
			if !seen[perm.Name] {
				seen[perm.Name] = true
				id.Permissions = append(id.Permissions, perm.Name)
			}
		}
	}
	return id, nil
}
