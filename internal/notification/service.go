package notification

import (
	"log/slog"

	"github.com/yaojerry/office-admin/internal"
	datamodel "github.com/yaojerry/office-admin/internal/core/datamodel/notice"
)

// Service manages the per-user notification inbox. Notice publishes write
// into the same table directly during fan-out; this service covers manual
// creation and the read side.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(dto CreateNotificationDTO) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	n := &datamodel.Notification{
		UserID:  dto.UserID,
		Type:    dto.Type,
		Title:   dto.Title,
		Content: dto.Content,
	}
	if err := s.repo.Create(n); err != nil {
		s.logger.Error("failed to create notification", "user_id", dto.UserID, "error", err)
		return nil, internal.NewInternalError("failed to create notification", err)
	}

	s.logger.Info("notification created", "notification_id", n.ID, "user_id", n.UserID, "type", n.Type)
	return toView(n), nil
}

// ListOwn returns the caller's notifications, newest first.
func (s *Service) ListOwn(userID int64) ([]*View, error) {
	rows, err := s.repo.ListForUser(userID)
	if err != nil {
		s.logger.Error("failed to list notifications", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to list notifications", err)
	}

	views := make([]*View, 0, len(rows))
	for i := range rows {
		views = append(views, toView(&rows[i]))
	}
	return views, nil
}

// MarkRead marks one of the caller's notifications as read. Notifications
// belonging to other users are reported as not found, not forbidden.
func (s *Service) MarkRead(id, userID int64) error {
	n, err := s.repo.GetForUser(id, userID)
	if err != nil {
		return internal.NewNotFoundError("notification not found", internal.ErrCodeNotificationNotFound)
	}

	if n.IsRead {
		return nil
	}

	if err := s.repo.MarkRead(id, userID); err != nil {
		s.logger.Error("failed to mark notification read", "notification_id", id, "user_id", userID, "error", err)
		return internal.NewInternalError("failed to mark notification read", err)
	}
	return nil
}

func (s *Service) UnreadCount(userID int64) (int64, error) {
	count, err := s.repo.CountUnread(userID)
	if err != nil {
		s.logger.Error("failed to count unread notifications", "user_id", userID, "error", err)
		return 0, internal.NewInternalError("failed to count unread notifications", err)
	}
	return count, nil
}
