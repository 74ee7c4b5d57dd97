package postgres

import (
	"errors"

	"github.com/yaojerry/office-admin/internal/core/datamodel/identity"
	"github.com/yaojerry/office-admin/internal/department"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) department.Repository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) List() ([]identity.Department, error) {
	var depts []identity.Department
	err := r.db.Order("created_at DESC").Find(&depts).Error
	return depts, err
}

func (r *DepartmentRepository) GetByID(id int64) (*identity.Department, error) {
	var dept identity.Department
	err := r.db.Where("id = ?", id).First(&dept).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &dept, nil
}

func (r *DepartmentRepository) GetByName(name string) (*identity.Department, error) {
	var dept identity.Department
	err := r.db.Where("name = ?", name).First(&dept).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &dept, nil
}

func (r *DepartmentRepository) Create(dept *identity.Department) error {
	return r.db.Create(dept).Error
}

func (r *DepartmentRepository) Update(dept *identity.Department) error {
	return r.db.Model(&identity.Department{}).
		Where("id = ?", dept.ID).
		Updates(map[string]interface{}{
			"name":        dept.Name,
			"description": dept.Description,
			"parent_id":   dept.ParentID,
		}).Error
}

func (r *DepartmentRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var childIDs []int64
		if err := tx.Model(&identity.Department{}).
			Where("parent_id = ?", id).
			Pluck("id", &childIDs).Error; err != nil {
			return err
		}

		ids := append(childIDs, id)
		if err := tx.Where("department_id IN ?", ids).Delete(&identity.UserDepartment{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&identity.Department{}).Error
	})
}

func (r *DepartmentRepository) HasChildren(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&identity.Department{}).Where("parent_id = ?", id).Count(&count).Error
	return count > 0, err
}
