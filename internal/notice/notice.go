package notice

import (
	"time"

	datamodel "github.com/yaojerry/office-admin/internal/core/datamodel/notice"
)

// Annotated pairs a notice with one user's read state.
type Annotated struct {
	datamodel.Notice
	IsRead bool
}

type Repository interface {
	// CreateWithFanOut persists the notice and, in the same transaction,
	// one UserNotice row and one Notification row for every user. Any
	// failure rolls the whole publish back.
	CreateWithFanOut(n *datamodel.Notice) (fannedOut int, err error)

	GetByID(id int64) (*datamodel.Notice, error)
	ListPublished() ([]datamodel.Notice, error)
	ListPublishedForUser(userID int64) ([]Annotated, error)
	ListAll() ([]datamodel.Notice, error)
	Update(n *datamodel.Notice) error
	Delete(id int64) error
	SetArchived(id int64, archived bool) error

	GetUserNotice(userID, noticeID int64) (*datamodel.UserNotice, error)
	// MarkRead flips the row to read at the given time. Rows already read
	// keep their original read_at.
	MarkRead(userID, noticeID int64, readAt time.Time) error
	ListUnread(userID int64) ([]datamodel.Notice, error)
	CountUnread(userID int64) (int64, error)
}

type View struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	PublishedAt time.Time `json:"publishedAt"`
	Archived    bool      `json:"archived"`
	IsRead      *bool     `json:"isRead,omitempty"`
}

func toView(n *datamodel.Notice) *View {
	return &View{
		ID:          n.ID,
		Title:       n.Title,
		Content:     n.Content,
		PublishedAt: n.PublishedAt,
		Archived:    n.Archived,
	}
}

func toAnnotatedView(a *Annotated) *View {
	v := toView(&a.Notice)
	isRead := a.IsRead
	v.IsRead = &isRead
	return v
}
