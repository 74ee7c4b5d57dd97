package notification

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/yaojerry/office-admin/internal"
	datamodel "github.com/yaojerry/office-admin/internal/core/datamodel/notice"
)

func TestNotification(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Notification Module Suite")
}

type mockNotificationRepository struct {
	rows   map[int64]*datamodel.Notification
	nextID int64
}

func newMockNotificationRepository() *mockNotificationRepository {
	return &mockNotificationRepository{
		rows:   make(map[int64]*datamodel.Notification),
		nextID: 1,
	}
}

func (m *mockNotificationRepository) Create(n *datamodel.Notification) error {
	n.ID = m.nextID
	m.nextID++
	cp := *n
	m.rows[n.ID] = &cp
	return nil
}

func (m *mockNotificationRepository) GetForUser(id, userID int64) (*datamodel.Notification, error) {
	if n, ok := m.rows[id]; ok && n.UserID == userID {
		cp := *n
		return &cp, nil
	}
	return nil, errors.New("record not found")
}

func (m *mockNotificationRepository) ListForUser(userID int64) ([]datamodel.Notification, error) {
	var out []datamodel.Notification
	for _, n := range m.rows {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (m *mockNotificationRepository) MarkRead(id, userID int64) error {
	if n, ok := m.rows[id]; ok && n.UserID == userID {
		n.IsRead = true
		return nil
	}
	return errors.New("record not found")
}

func (m *mockNotificationRepository) CountUnread(userID int64) (int64, error) {
	var count int64
	for _, n := range m.rows {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func appErrorCode(err error) internal.ErrorCode {
	var appErr *internal.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

var _ = ginkgo.Describe("NotificationService", func() {
	var (
		service *Service
		repo    *mockNotificationRepository
	)

	ginkgo.BeforeEach(func() {
		repo = newMockNotificationRepository()
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = NewService(repo, lg)
	})

	create := func(userID int64) *View {
		view, err := service.Create(CreateNotificationDTO{
			UserID:  userID,
			Type:    "system",
			Title:   "maintenance window",
			Content: "Saturday 02:00",
		})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return view
	}

	ginkgo.Describe("Create", func() {
		ginkgo.It("should create an unread notification", func() {
			view := create(1)
			gomega.Expect(view.ID).To(gomega.BeNumerically(">", 0))
			gomega.Expect(view.IsRead).To(gomega.BeFalse())
		})

		ginkgo.It("should validate required fields", func() {
			_, err := service.Create(CreateNotificationDTO{UserID: 0, Type: "", Title: "", Content: ""})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("ListOwn", func() {
		ginkgo.It("should only return the caller's notifications", func() {
			create(1)
			create(2)

			views, err := service.ListOwn(1)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(views).To(gomega.HaveLen(1))
		})
	})

	ginkgo.Describe("MarkRead", func() {
		ginkgo.It("should mark the caller's notification", func() {
			view := create(1)

			gomega.Expect(service.MarkRead(view.ID, 1)).To(gomega.Succeed())

			count, err := service.UnreadCount(1)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(count).To(gomega.BeZero())
		})

		ginkgo.It("should be a no-op on an already-read notification", func() {
			view := create(1)
			gomega.Expect(service.MarkRead(view.ID, 1)).To(gomega.Succeed())
			gomega.Expect(service.MarkRead(view.ID, 1)).To(gomega.Succeed())
		})

		ginkgo.It("should report another user's notification as not found", func() {
			view := create(1)
			err := service.MarkRead(view.ID, 2)
			gomega.Expect(appErrorCode(err)).To(gomega.Equal(internal.ErrCodeNotificationNotFound))
		})
	})

	ginkgo.Describe("UnreadCount", func() {
		ginkgo.It("should count only unread rows for the caller", func() {
			create(1)
			create(1)
			view := create(1)
			create(2)

			gomega.Expect(service.MarkRead(view.ID, 1)).To(gomega.Succeed())

			count, err := service.UnreadCount(1)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(count).To(gomega.Equal(int64(2)))
		})
	})
})
