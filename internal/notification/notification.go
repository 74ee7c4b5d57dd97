package notification

import (
	"time"

	datamodel "github.com/yaojerry/office-admin/internal/core/datamodel/notice"
)

type Repository interface {
	Create(n *datamodel.Notification) error
	// GetForUser returns the notification only if it belongs to the user.
	GetForUser(id, userID int64) (*datamodel.Notification, error)
	ListForUser(userID int64) ([]datamodel.Notification, error)
	MarkRead(id, userID int64) error
	CountUnread(userID int64) (int64, error)
}

type View struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

func toView(n *datamodel.Notification) *View {
	return &View{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Content:   n.Content,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
