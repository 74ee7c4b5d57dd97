package postgres

import (
	"errors"

	"github.com/yaojerry/office-admin/internal/core/datamodel/identity"
	noticemodel "github.com/yaojerry/office-admin/internal/core/datamodel/notice"
	"github.com/yaojerry/office-admin/internal/user"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List() ([]identity.User, error) {
	var users []identity.User
	err := r.db.Preload("Roles").Preload("Departments").Order("id").Find(&users).Error
	return users, err
}

func (r *UserRepository) GetByID(id int64) (*identity.User, error) {
	var u identity.User
	err := r.db.Preload("Roles").Preload("Departments").Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(username string) (*identity.User, error) {
	var u identity.User
	err := r.db.Where("username = ?", username).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*identity.User, error) {
	var u identity.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(u *identity.User, roleIDs, departmentIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		for _, rid := range roleIDs {
			if err := tx.Create(&identity.UserRole{UserID: u.ID, RoleID: rid}).Error; err != nil {
				return err
			}
		}
		for _, did := range departmentIDs {
			if err := tx.Create(&identity.UserDepartment{UserID: u.ID, DepartmentID: did}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Update writes field changes and, when a membership slice is non-nil,
// replaces the full set inside the same transaction.
func (r *UserRepository) Update(u *identity.User, roleIDs, departmentIDs *[]int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&identity.User{}).
			Where("id = ?", u.ID).
			Updates(map[string]interface{}{
				"email":         u.Email,
				"display_name":  u.DisplayName,
				"phone":         u.Phone,
				"password_hash": u.PasswordHash,
			}).Error
		if err != nil {
			return err
		}

		if roleIDs != nil {
			if err := tx.Where("user_id = ?", u.ID).Delete(&identity.UserRole{}).Error; err != nil {
				return err
			}
			for _, rid := range *roleIDs {
				if err := tx.Create(&identity.UserRole{UserID: u.ID, RoleID: rid}).Error; err != nil {
					return err
				}
			}
		}

		if departmentIDs != nil {
			if err := tx.Where("user_id = ?", u.ID).Delete(&identity.UserDepartment{}).Error; err != nil {
				return err
			}
			for _, did := range *departmentIDs {
				if err := tx.Create(&identity.UserDepartment{UserID: u.ID, DepartmentID: did}).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
}

// Delete removes the user together with every per-user row the system owns
// for it: role and department links plus the notice read-state and
// notification rows created by publish fan-out.
func (r *UserRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&identity.UserRole{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&identity.UserDepartment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&noticemodel.UserNotice{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&noticemodel.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&identity.User{}, id).Error
	})
}

func (r *UserRepository) CountRoles(ids []int64) (int64, error) {
	var count int64
	err := r.db.Model(&identity.Role{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

func (r *UserRepository) CountDepartments(ids []int64) (int64, error) {
	var count int64
	err := r.db.Model(&identity.Department{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

func (r *UserRepository) UpdateAvatar(userID int64, avatar string) error {
	return r.db.Model(&identity.User{}).
		Where("id = ?", userID).
		Update("avatar", avatar).Error
}
