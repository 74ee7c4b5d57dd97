package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	datamodel "github.com/yaojerry/office-admin/internal/core/datamodel/notice"
	"github.com/yaojerry/office-admin/internal/notice"
	noticePostgres "github.com/yaojerry/office-admin/internal/notice/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestNoticePostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Notice Postgres Suite")
}

// SQLiteUser is a SQLite-compatible user model without associations
type SQLiteUser struct {
	ID       int64  `gorm:"primaryKey"`
	Username string `gorm:"column:username;uniqueIndex;not null"`
}

func (SQLiteUser) TableName() string { return "users" }

var _ = Describe("Notice PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo notice.Repository
	)

	seedUsers := func(usernames ...string) {
		for _, name := range usernames {
			Expect(db.Create(&SQLiteUser{Username: name}).Error).NotTo(HaveOccurred())
		}
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteUser{}, &datamodel.Notice{}, &datamodel.UserNotice{}, &datamodel.Notification{})
		Expect(err).NotTo(HaveOccurred())

		repo = noticePostgres.NewNoticeRepository(db)
	})

	Describe("CreateWithFanOut", func() {
		It("should create one read-state row and one notification per user", func() {
			seedUsers("alice", "bob", "carol")

			n := &datamodel.Notice{Title: "All hands", Content: "Friday 10:00", PublishedAt: time.Now()}
			fannedOut, err := repo.CreateWithFanOut(n)

			Expect(err).NotTo(HaveOccurred())
			Expect(fannedOut).To(Equal(3))
			Expect(n.ID).To(BeNumerically(">", 0))

			var userNotices int64
			Expect(db.Model(&datamodel.UserNotice{}).Where("notice_id = ?", n.ID).Count(&userNotices).Error).NotTo(HaveOccurred())
			Expect(userNotices).To(Equal(int64(3)))

			var notifications int64
			Expect(db.Model(&datamodel.Notification{}).Where("type = ?", datamodel.NotificationTypeNotice).Count(&notifications).Error).NotTo(HaveOccurred())
			Expect(notifications).To(Equal(int64(3)))
		})

		It("should persist nothing when fan-out fails partway", func() {
			seedUsers("alice", "bob")
			// notification insert is the last step of the transaction; with
			// the table gone the whole publish must roll back
			Expect(db.Migrator().DropTable(&datamodel.Notification{})).To(Succeed())

			n := &datamodel.Notice{Title: "doomed", Content: "never lands", PublishedAt: time.Now()}
			fannedOut, err := repo.CreateWithFanOut(n)

			Expect(err).To(HaveOccurred())
			Expect(fannedOut).To(BeZero())

			var notices int64
			Expect(db.Model(&datamodel.Notice{}).Count(&notices).Error).NotTo(HaveOccurred())
			Expect(notices).To(BeZero())

			var userNotices int64
			Expect(db.Model(&datamodel.UserNotice{}).Count(&userNotices).Error).NotTo(HaveOccurred())
			Expect(userNotices).To(BeZero())
		})

		It("should publish to nobody when there are no users", func() {
			n := &datamodel.Notice{Title: "Quiet", Content: "empty office", PublishedAt: time.Now()}
			fannedOut, err := repo.CreateWithFanOut(n)

			Expect(err).NotTo(HaveOccurred())
			Expect(fannedOut).To(BeZero())
		})
	})

	Describe("ListPublishedForUser", func() {
		It("should annotate notices with the caller's read state", func() {
			seedUsers("alice", "bob")

			first := &datamodel.Notice{Title: "first", Content: "c", PublishedAt: time.Now().Add(-time.Hour)}
			second := &datamodel.Notice{Title: "second", Content: "c", PublishedAt: time.Now()}
			_, err := repo.CreateWithFanOut(first)
			Expect(err).NotTo(HaveOccurred())
			_, err = repo.CreateWithFanOut(second)
			Expect(err).NotTo(HaveOccurred())

			Expect(repo.MarkRead(1, first.ID, time.Now())).To(Succeed())

			rows, err := repo.ListPublishedForUser(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
			// newest first
			Expect(rows[0].Title).To(Equal("second"))
			Expect(rows[0].IsRead).To(BeFalse())
			Expect(rows[1].Title).To(Equal("first"))
			Expect(rows[1].IsRead).To(BeTrue())
		})

		It("should exclude archived notices", func() {
			seedUsers("alice")

			n := &datamodel.Notice{Title: "old", Content: "c", PublishedAt: time.Now()}
			_, err := repo.CreateWithFanOut(n)
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.SetArchived(n.ID, true)).To(Succeed())

			rows, err := repo.ListPublishedForUser(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(BeEmpty())
		})
	})

	Describe("MarkRead", func() {
		It("should keep the first read_at on a second call", func() {
			seedUsers("alice")

			n := &datamodel.Notice{Title: "t", Content: "c", PublishedAt: time.Now()}
			_, err := repo.CreateWithFanOut(n)
			Expect(err).NotTo(HaveOccurred())

			firstReadAt := time.Now().Add(-time.Minute)
			Expect(repo.MarkRead(1, n.ID, firstReadAt)).To(Succeed())
			Expect(repo.MarkRead(1, n.ID, time.Now())).To(Succeed())

			un, err := repo.GetUserNotice(1, n.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(un.IsRead).To(BeTrue())
			Expect(un.ReadAt.Unix()).To(Equal(firstReadAt.Unix()))
		})
	})

	Describe("CountUnread", func() {
		It("should not count archived or read notices", func() {
			seedUsers("alice")

			read := &datamodel.Notice{Title: "read", Content: "c", PublishedAt: time.Now()}
			archived := &datamodel.Notice{Title: "archived", Content: "c", PublishedAt: time.Now()}
			unread := &datamodel.Notice{Title: "unread", Content: "c", PublishedAt: time.Now()}
			for _, n := range []*datamodel.Notice{read, archived, unread} {
				_, err := repo.CreateWithFanOut(n)
				Expect(err).NotTo(HaveOccurred())
			}

			Expect(repo.MarkRead(1, read.ID, time.Now())).To(Succeed())
			Expect(repo.SetArchived(archived.ID, true)).To(Succeed())

			count, err := repo.CountUnread(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))

			notices, err := repo.ListUnread(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(notices).To(HaveLen(1))
			Expect(notices[0].Title).To(Equal("unread"))
		})
	})

	Describe("Delete", func() {
		It("should remove read-state rows together with the notice", func() {
			seedUsers("alice", "bob")

			n := &datamodel.Notice{Title: "t", Content: "c", PublishedAt: time.Now()}
			_, err := repo.CreateWithFanOut(n)
			Expect(err).NotTo(HaveOccurred())

			Expect(repo.Delete(n.ID)).To(Succeed())

			_, err = repo.GetByID(n.ID)
			Expect(err).To(MatchError(noticePostgres.ErrNotFound))

			var remaining int64
			Expect(db.Model(&datamodel.UserNotice{}).Where("notice_id = ?", n.ID).Count(&remaining).Error).NotTo(HaveOccurred())
			Expect(remaining).To(BeZero())
		})
	})
})
