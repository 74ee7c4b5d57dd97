package postgres

import (
	"errors"
	"time"

	"github.com/yaojerry/office-admin/internal/core/datamodel/identity"
	datamodel "github.com/yaojerry/office-admin/internal/core/datamodel/notice"
	"github.com/yaojerry/office-admin/internal/notice"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// NoticeRepository implements notice.Repository using GORM
type NoticeRepository struct {
	db *gorm.DB
}

func NewNoticeRepository(db *gorm.DB) notice.Repository {
	return &NoticeRepository{db: db}
}

// CreateWithFanOut inserts the notice and fans it out to every user inside
// one transaction: a UserNotice read-state row plus a Notification inbox row
// per user. If any insert fails nothing is published.
func (r *NoticeRepository) CreateWithFanOut(n *datamodel.Notice) (int, error) {
	var fannedOut int
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(n).Error; err != nil {
			return err
		}

		var userIDs []int64
		if err := tx.Model(&identity.User{}).Pluck("id", &userIDs).Error; err != nil {
			return err
		}
		if len(userIDs) == 0 {
			return nil
		}

		userNotices := make([]datamodel.UserNotice, 0, len(userIDs))
		notifications := make([]datamodel.Notification, 0, len(userIDs))
		for _, uid := range userIDs {
			userNotices = append(userNotices, datamodel.UserNotice{
				UserID:   uid,
				NoticeID: n.ID,
			})
			notifications = append(notifications, datamodel.Notification{
				UserID:  uid,
				Type:    datamodel.NotificationTypeNotice,
				Title:   n.Title,
				Content: n.Content,
			})
		}
		if err := tx.CreateInBatches(userNotices, 500).Error; err != nil {
			return err
		}
		if err := tx.CreateInBatches(notifications, 500).Error; err != nil {
			return err
		}
		fannedOut = len(userIDs)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return fannedOut, nil
}

func (r *NoticeRepository) GetByID(id int64) (*datamodel.Notice, error) {
	var rec datamodel.Notice
	err := r.db.Where("id = ?", id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *NoticeRepository) ListPublished() ([]datamodel.Notice, error) {
	var notices []datamodel.Notice
	err := r.db.Where("archived = ?", false).Order("published_at DESC").Find(&notices).Error
	return notices, err
}

func (r *NoticeRepository) ListPublishedForUser(userID int64) ([]notice.Annotated, error) {
	var rows []notice.Annotated
	err := r.db.Model(&datamodel.Notice{}).
		Select("notices.*, COALESCE(user_notices.is_read, false) AS is_read").
		Joins("LEFT JOIN user_notices ON user_notices.notice_id = notices.id AND user_notices.user_id = ?", userID).
		Where("notices.archived = ?", false).
		Order("notices.published_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *NoticeRepository) ListAll() ([]datamodel.Notice, error) {
	var notices []datamodel.Notice
	err := r.db.Order("published_at DESC").Find(&notices).Error
	return notices, err
}

func (r *NoticeRepository) Update(n *datamodel.Notice) error {
	return r.db.Model(&datamodel.Notice{}).
		Where("id = ?", n.ID).
		Updates(map[string]interface{}{
			"title":   n.Title,
			"content": n.Content,
		}).Error
}

// Delete removes the notice together with its per-user read state. Inbox
// notifications already delivered are left alone.
func (r *NoticeRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("notice_id = ?", id).Delete(&datamodel.UserNotice{}).Error; err != nil {
			return err
		}
		return tx.Delete(&datamodel.Notice{}, id).Error
	})
}

func (r *NoticeRepository) SetArchived(id int64, archived bool) error {
	return r.db.Model(&datamodel.Notice{}).
		Where("id = ?", id).
		Update("archived", archived).Error
}

func (r *NoticeRepository) GetUserNotice(userID, noticeID int64) (*datamodel.UserNotice, error) {
	var rec datamodel.UserNotice
	err := r.db.Where("user_id = ? AND notice_id = ?", userID, noticeID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// MarkRead only touches unread rows, so a repeated call keeps the
// original read_at.
func (r *NoticeRepository) MarkRead(userID, noticeID int64, readAt time.Time) error {
	return r.db.Model(&datamodel.UserNotice{}).
		Where("user_id = ? AND notice_id = ? AND is_read = ?", userID, noticeID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": readAt,
		}).Error
}

func (r *NoticeRepository) ListUnread(userID int64) ([]datamodel.Notice, error) {
	var notices []datamodel.Notice
	err := r.db.Model(&datamodel.Notice{}).
		Joins("JOIN user_notices ON user_notices.notice_id = notices.id").
		Where("user_notices.user_id = ? AND user_notices.is_read = ? AND notices.archived = ?", userID, false, false).
		Order("notices.published_at DESC").
		Find(&notices).Error
	return notices, err
}

func (r *NoticeRepository) CountUnread(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&datamodel.UserNotice{}).
		Joins("JOIN notices ON notices.id = user_notices.notice_id").
		Where("user_notices.user_id = ? AND user_notices.is_read = ? AND notices.archived = ?", userID, false, false).
		Count(&count).Error
	return count, err
}
