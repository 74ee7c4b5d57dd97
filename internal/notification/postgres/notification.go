package postgres

import (
	"errors"
	"time"

	datamodel "github.com/yaojerry/office-admin/internal/core/datamodel/notice"
	"github.com/yaojerry/office-admin/internal/notification"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// NotificationRepository implements notification.Repository using GORM
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) notification.Repository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *datamodel.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) GetForUser(id, userID int64) (*datamodel.Notification, error) {
	var rec datamodel.Notification
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *NotificationRepository) ListForUser(userID int64) ([]datamodel.Notification, error) {
	var rows []datamodel.Notification
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *NotificationRepository) MarkRead(id, userID int64) error {
	return r.db.Model(&datamodel.Notification{}).
		Where("id = ? AND user_id = ? AND is_read = ?", id, userID, false).
		Updates(map[string]interface{}{
			"is_read":    true,
			"updated_at": time.Now(),
		}).Error
}

func (r *NotificationRepository) CountUnread(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&datamodel.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}
