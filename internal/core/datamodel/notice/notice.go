package notice

import "time"

type Notice struct {
	ID          int64     `gorm:"primaryKey"`
	Title       string    `gorm:"column:title;not null"`
	Content     string    `gorm:"column:content;type:text;not null"`
	PublishedAt time.Time `gorm:"column:published_at;not null"`
	Archived    bool      `gorm:"column:archived;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Notice) TableName() string { return "notices" }

// UserNotice is the per-user read state for a notice. The publish fan-out
// creates one row per user, so absence of a row only happens for notices
// published before a user account existed.
type UserNotice struct {
	ID       int64      `gorm:"primaryKey"`
	UserID   int64      `gorm:"column:user_id;not null;uniqueIndex:idx_user_notice"`
	NoticeID int64      `gorm:"column:notice_id;not null;uniqueIndex:idx_user_notice"`
	IsRead   bool       `gorm:"column:is_read;default:false"`
	ReadAt   *time.Time `gorm:"column:read_at"`
}

func (UserNotice) TableName() string { return "user_notices" }

const NotificationTypeNotice = "notice"

// Notification is a generic per-user inbox row. Notices are one producer;
// the entity does not care where a row came from.
type Notification struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	Type      string    `gorm:"column:type;not null"`
	Title     string    `gorm:"column:title;not null"`
	Content   string    `gorm:"column:content;type:text;not null"`
	IsRead    bool      `gorm:"column:is_read;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Notification) TableName() string { return "notifications" }
