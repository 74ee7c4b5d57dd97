package postgres

import (
	"errors"

	"github.com/yaojerry/office-admin/internal/core/datamodel/identity"
	"github.com/yaojerry/office-admin/internal/role"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// RoleRepository implements role.Repository using GORM
type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) role.Repository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) ListRoles() ([]identity.Role, error) {
	var roles []identity.Role
	err := r.db.Preload("Permissions").Order("id").Find(&roles).Error
	return roles, err
}

func (r *RoleRepository) GetRoleByID(id int64) (*identity.Role, error) {
	var rec identity.Role
	err := r.db.Preload("Permissions").Where("id = ?", id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *RoleRepository) GetRoleByName(name string) (*identity.Role, error) {
	var rec identity.Role
	err := r.db.Where("name = ?", name).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *RoleRepository) CreateRole(rec *identity.Role) error {
	return r.db.Create(rec).Error
}

func (r *RoleRepository) UpdateRole(rec *identity.Role) error {
	return r.db.Model(&identity.Role{}).
		Where("id = ?", rec.ID).
		Updates(map[string]interface{}{
			"name":        rec.Name,
			"description": rec.Description,
		}).Error
}

// DeleteRole removes the role and its join rows in one transaction so a
// half-deleted role is never observable.
func (r *RoleRepository) DeleteRole(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&identity.UserRole{}).Error; err != nil {
			return err
		}
		if err := tx.Where("role_id = ?", id).Delete(&identity.RolePermission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&identity.Role{}, id).Error
	})
}

func (r *RoleRepository) ListPermissions() ([]identity.Permission, error) {
	var perms []identity.Permission
	err := r.db.Order("id").Find(&perms).Error
	return perms, err
}

func (r *RoleRepository) GetPermissionByID(id int64) (*identity.Permission, error) {
	var rec identity.Permission
	err := r.db.Where("id = ?", id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *RoleRepository) GetPermissionByName(name string) (*identity.Permission, error) {
	var rec identity.Permission
	err := r.db.Where("name = ?", name).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *RoleRepository) GetPermissionsByIDs(ids []int64) ([]identity.Permission, error) {
	var perms []identity.Permission
	err := r.db.Where("id IN ?", ids).Find(&perms).Error
	return perms, err
}

func (r *RoleRepository) CreatePermission(rec *identity.Permission) error {
	return r.db.Create(rec).Error
}

func (r *RoleRepository) DeletePermission(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("permission_id = ?", id).Delete(&identity.RolePermission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&identity.Permission{}, id).Error
	})
}

func (r *RoleRepository) GrantPermissions(roleID int64, permissionIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, pid := range permissionIDs {
			link := identity.RolePermission{RoleID: roleID, PermissionID: pid}
			// upsert-style: re-granting an existing permission is a no-op
			if err := tx.Where(&link).FirstOrCreate(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *RoleRepository) RevokePermission(roleID, permissionID int64) error {
	return r.db.
		Where("role_id = ? AND permission_id = ?", roleID, permissionID).
		Delete(&identity.RolePermission{}).Error
}
