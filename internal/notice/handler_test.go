package notice_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/yaojerry/office-admin/internal/auth"
	datamodel "github.com/yaojerry/office-admin/internal/core/datamodel/notice"
	"github.com/yaojerry/office-admin/internal/notice"
	noticePostgres "github.com/yaojerry/office-admin/internal/notice/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type sqliteUser struct {
	ID       int64  `gorm:"primaryKey"`
	Username string `gorm:"column:username;uniqueIndex;not null"`
}

func (sqliteUser) TableName() string { return "users" }

var _ = Describe("Notice Handler Integration", func() {
	var (
		db      *gorm.DB
		service *notice.Service
		handler *notice.Handler
		router  *chi.Mux
	)

	withIdentity := func(req *http.Request, identity *auth.Identity) *http.Request {
		return req.WithContext(auth.ContextWithIdentity(req.Context(), identity))
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&sqliteUser{}, &datamodel.Notice{}, &datamodel.UserNotice{}, &datamodel.Notification{})
		Expect(err).NotTo(HaveOccurred())

		for _, name := range []string{"alice", "bob"} {
			Expect(db.Create(&sqliteUser{Username: name}).Error).NotTo(HaveOccurred())
		}

		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = notice.NewService(noticePostgres.NewNoticeRepository(db), slogger)
		handler = notice.NewHandler(service)

		router = chi.NewRouter()
		router.Post("/notices", handler.Publish)
		router.Get("/notices", handler.ListPublished)
		router.Post("/notices/{id}/read", handler.MarkRead)
		router.Get("/notices/unread/count", handler.UnreadCount)
		router.Get("/notices/export", handler.Export)
	})

	Describe("POST /notices", func() {
		It("should publish and return 201 with the notice", func() {
			body := strings.NewReader(`{"title":"All hands","content":"Friday 10:00"}`)
			req := httptest.NewRequest(http.MethodPost, "/notices", body)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusCreated))
			var view notice.View
			Expect(json.Unmarshal(rec.Body.Bytes(), &view)).To(Succeed())
			Expect(view.ID).To(BeNumerically(">", 0))
			Expect(view.Title).To(Equal("All hands"))
		})

		It("should return 400 with field errors for an empty body", func() {
			body := strings.NewReader(`{"title":"","content":""}`)
			req := httptest.NewRequest(http.MethodPost, "/notices", body)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(rec.Body.String()).To(ContainSubstring("title"))
		})
	})

	Describe("GET /notices", func() {
		It("should return 401 without an identity", func() {
			req := httptest.NewRequest(http.MethodGet, "/notices", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should return notices annotated per caller", func() {
			_, err := service.Publish(notice.CreateNoticeDTO{Title: "t", Content: "c"})
			Expect(err).NotTo(HaveOccurred())

			req := withIdentity(httptest.NewRequest(http.MethodGet, "/notices", nil), &auth.Identity{ID: 1})
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var views []notice.View
			Expect(json.Unmarshal(rec.Body.Bytes(), &views)).To(Succeed())
			Expect(views).To(HaveLen(1))
			Expect(views[0].IsRead).NotTo(BeNil())
			Expect(*views[0].IsRead).To(BeFalse())
		})
	})

	Describe("POST /notices/{id}/read", func() {
		It("should mark the notice read for the caller only", func() {
			view, err := service.Publish(notice.CreateNoticeDTO{Title: "t", Content: "c"})
			Expect(err).NotTo(HaveOccurred())

			req := withIdentity(httptest.NewRequest(http.MethodPost, "/notices/1/read", nil), &auth.Identity{ID: 1})
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusOK))

			un, err := noticePostgres.NewNoticeRepository(db).GetUserNotice(1, view.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(un.IsRead).To(BeTrue())

			other, err := noticePostgres.NewNoticeRepository(db).GetUserNotice(2, view.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(other.IsRead).To(BeFalse())
		})

		It("should return 404 for a notice without read state", func() {
			req := withIdentity(httptest.NewRequest(http.MethodPost, "/notices/999/read", nil), &auth.Identity{ID: 1})
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("GET /notices/unread/count", func() {
		It("should return the caller's unread count", func() {
			_, err := service.Publish(notice.CreateNoticeDTO{Title: "a", Content: "c"})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Publish(notice.CreateNoticeDTO{Title: "b", Content: "c"})
			Expect(err).NotTo(HaveOccurred())

			req := withIdentity(httptest.NewRequest(http.MethodGet, "/notices/unread/count", nil), &auth.Identity{ID: 2})
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var resp map[string]int64
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["unreadCount"]).To(Equal(int64(2)))
		})
	})

	Describe("GET /notices/export", func() {
		It("should stream CSV with an attachment disposition", func() {
			_, err := service.Publish(notice.CreateNoticeDTO{Title: "exported", Content: "c"})
			Expect(err).NotTo(HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/notices/export", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("text/csv"))
			Expect(rec.Header().Get("Content-Disposition")).To(ContainSubstring("notices.csv"))
			Expect(rec.Body.String()).To(HavePrefix("id,title,content,publishedAt,archived"))
			Expect(rec.Body.String()).To(ContainSubstring("exported"))
		})

		It("should return 500 instead of an empty file when the store fails", func() {
			Expect(db.Migrator().DropTable(&datamodel.Notice{})).To(Succeed())

			req := httptest.NewRequest(http.MethodGet, "/notices/export", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
			Expect(rec.Header().Get("Content-Disposition")).To(BeEmpty())
		})
	})

	Describe("archived lifecycle over HTTP", func() {
		It("should archive then refuse a notice_admin edit", func() {
			editRouter := chi.NewRouter()
			editRouter.Put("/notices/{id}", handler.Edit)
			editRouter.Patch("/notices/{id}/archive", handler.Archive)

			view, err := service.Publish(notice.CreateNoticeDTO{Title: "t", Content: "c"})
			Expect(err).NotTo(HaveOccurred())

			noticeAdmin := &auth.Identity{ID: 2, Roles: []string{"notice_admin"}}

			req := withIdentity(httptest.NewRequest(http.MethodPatch, "/notices/1/archive", nil), noticeAdmin)
			rec := httptest.NewRecorder()
			editRouter.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusOK))

			body := strings.NewReader(`{"title":"tweak"}`)
			req = withIdentity(httptest.NewRequest(http.MethodPut, "/notices/1", body), noticeAdmin)
			rec = httptest.NewRecorder()
			editRouter.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusForbidden))

			stored, err := service.ListAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(stored[0].ID).To(Equal(view.ID))
			Expect(stored[0].Title).To(Equal("t"))
		})
	})
})
