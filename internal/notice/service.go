package notice

import (
	"encoding/csv"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/yaojerry/office-admin/internal"
	"github.com/yaojerry/office-admin/internal/auth"
	"github.com/yaojerry/office-admin/internal/core/datamodel/identity"
	datamodel "github.com/yaojerry/office-admin/internal/core/datamodel/notice"
)

// Service implements notice distribution and per-user read-state tracking.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Publish creates the notice and fans out a read-state row and a notification
// row per user. The repository runs the whole thing in one transaction, so a
// partial fan-out is never visible.
func (s *Service) Publish(dto CreateNoticeDTO) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	n := &datamodel.Notice{
		Title:       dto.Title,
		Content:     dto.Content,
		PublishedAt: time.Now(),
	}

	fannedOut, err := s.repo.CreateWithFanOut(n)
	if err != nil {
		s.logger.Error("notice publish failed", "title", dto.Title, "error", err)
		return nil, internal.NewInternalError("failed to publish notice", err)
	}

	s.logger.Info("notice published",
		"notice_id", n.ID,
		"title", n.Title,
		"recipients", fannedOut)
	return toView(n), nil
}

// ListPublished returns non-archived notices, newest first, annotated with
// the caller's read state. A missing read-state row counts as unread; those
// only exist for notices that predate the caller's account.
func (s *Service) ListPublished(callerID int64) ([]*View, error) {
	annotated, err := s.repo.ListPublishedForUser(callerID)
	if err != nil {
		s.logger.Error("failed to list notices", "user_id", callerID, "error", err)
		return nil, internal.NewInternalError("failed to list notices", err)
	}

	views := make([]*View, 0, len(annotated))
	for i := range annotated {
		views = append(views, toAnnotatedView(&annotated[i]))
	}
	return views, nil
}

// ListAll includes archived notices. Role-gated at the route.
func (s *Service) ListAll() ([]*View, error) {
	notices, err := s.repo.ListAll()
	if err != nil {
		s.logger.Error("failed to list all notices", "error", err)
		return nil, internal.NewInternalError("failed to list notices", err)
	}

	views := make([]*View, 0, len(notices))
	for i := range notices {
		views = append(views, toView(&notices[i]))
	}
	return views, nil
}

// Edit updates title and content. Archived notices are edit-locked for
// everyone except full admins.
func (s *Service) Edit(id int64, dto UpdateNoticeDTO, caller *auth.Identity) (*View, error) {
	n, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("notice not found", internal.ErrCodeNoticeNotFound)
	}

	if n.Archived && !caller.HasAnyRole(identity.RoleAdmin) {
		s.logger.Warn("archived notice edit denied", "notice_id", id, "user_id", caller.ID)
		return nil, internal.NewForbiddenError("archived notices cannot be edited", internal.ErrCodeNoticeArchived)
	}

	if dto.Title != nil {
		n.Title = *dto.Title
	}
	if dto.Content != nil {
		n.Content = *dto.Content
	}

	if err := s.repo.Update(n); err != nil {
		s.logger.Error("failed to update notice", "notice_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update notice", err)
	}
	return toView(n), nil
}

// Delete removes a notice. Archived notices can only be deleted by admins.
func (s *Service) Delete(id int64, caller *auth.Identity) error {
	n, err := s.repo.GetByID(id)
	if err != nil {
		return internal.NewNotFoundError("notice not found", internal.ErrCodeNoticeNotFound)
	}

	if n.Archived && !caller.HasAnyRole(identity.RoleAdmin) {
		s.logger.Warn("archived notice delete denied", "notice_id", id, "user_id", caller.ID)
		return internal.NewForbiddenError("only admins can delete archived notices", internal.ErrCodeNoticeArchived)
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete notice", "notice_id", id, "error", err)
		return internal.NewInternalError("failed to delete notice", err)
	}

	s.logger.Info("notice deleted", "notice_id", id, "user_id", caller.ID)
	return nil
}

// Archive is one-way here: it only ever sets the flag. Unarchiving is an
// admin-only operation exposed through SetArchived.
func (s *Service) Archive(id int64) (*View, error) {
	n, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("notice not found", internal.ErrCodeNoticeNotFound)
	}

	if err := s.repo.SetArchived(id, true); err != nil {
		s.logger.Error("failed to archive notice", "notice_id", id, "error", err)
		return nil, internal.NewInternalError("failed to archive notice", err)
	}

	n.Archived = true
	s.logger.Info("notice archived", "notice_id", id)
	return toView(n), nil
}

// SetArchived toggles the flag in either direction, for the admin view.
func (s *Service) SetArchived(id int64, archived bool) (*View, error) {
	n, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("notice not found", internal.ErrCodeNoticeNotFound)
	}

	if err := s.repo.SetArchived(id, archived); err != nil {
		s.logger.Error("failed to set archive state", "notice_id", id, "error", err)
		return nil, internal.NewInternalError("failed to set archive state", err)
	}

	n.Archived = archived
	return toView(n), nil
}

// MarkRead flips the caller's read-state row. Marking an already-read notice
// is a no-op that preserves the original read timestamp.
func (s *Service) MarkRead(noticeID, userID int64) error {
	un, err := s.repo.GetUserNotice(userID, noticeID)
	if err != nil {
		return internal.NewNotFoundError("no read state for this notice", internal.ErrCodeReadStateNotFound)
	}

	if un.IsRead {
		return nil
	}

	if err := s.repo.MarkRead(userID, noticeID, time.Now()); err != nil {
		s.logger.Error("failed to mark notice read", "notice_id", noticeID, "user_id", userID, "error", err)
		return internal.NewInternalError("failed to mark notice read", err)
	}
	return nil
}

func (s *Service) Unread(userID int64) ([]*View, error) {
	notices, err := s.repo.ListUnread(userID)
	if err != nil {
		s.logger.Error("failed to list unread notices", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to list unread notices", err)
	}

	views := make([]*View, 0, len(notices))
	for i := range notices {
		views = append(views, toView(&notices[i]))
	}
	return views, nil
}

func (s *Service) UnreadCount(userID int64) (int64, error) {
	count, err := s.repo.CountUnread(userID)
	if err != nil {
		s.logger.Error("failed to count unread notices", "user_id", userID, "error", err)
		return 0, internal.NewInternalError("failed to count unread notices", err)
	}
	return count, nil
}

// ExportCSV writes every notice, archived included, as CSV.
func (s *Service) ExportCSV(w io.Writer) error {
	notices, err := s.repo.ListAll()
	if err != nil {
		s.logger.Error("failed to export notices", "error", err)
		return internal.NewInternalError("failed to export notices", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "title", "content", "publishedAt", "archived"}); err != nil {
		return internal.NewInternalError("failed to write csv", err)
	}
	for i := range notices {
		n := &notices[i]
		record := []string{
			strconv.FormatInt(n.ID, 10),
			n.Title,
			n.Content,
			n.PublishedAt.Format(time.RFC3339),
			strconv.FormatBool(n.Archived),
		}
		if err := cw.Write(record); err != nil {
			return internal.NewInternalError("failed to write csv", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return internal.NewInternalError("failed to write csv", err)
	}
	return nil
}
