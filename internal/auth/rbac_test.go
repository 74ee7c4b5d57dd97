package auth

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Guard", func() {
	var (
		guard *Guard
		next  http.Handler
	)

	ginkgo.BeforeEach(func() {
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		guard = NewGuard(lg)
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})

	request := func(identity *Identity) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if identity != nil {
			req = req.WithContext(ContextWithIdentity(req.Context(), identity))
		}
		return req
	}

	ginkgo.Describe("RequireRoles", func() {
		ginkgo.It("should return 401 when no identity is in the context", func() {
			rec := httptest.NewRecorder()
			guard.RequireRoles("admin")(next).ServeHTTP(rec, request(nil))
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should return 403 when no role matches", func() {
			rec := httptest.NewRecorder()
			identity := &Identity{ID: 1, Roles: []string{"user"}}
			guard.RequireRoles("admin", "notice_admin")(next).ServeHTTP(rec, request(identity))
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("should pass when any allowed role matches", func() {
			rec := httptest.NewRecorder()
			identity := &Identity{ID: 1, Roles: []string{"user", "notice_admin"}}
			guard.RequireRoles("admin", "notice_admin")(next).ServeHTTP(rec, request(identity))
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})
	})

	ginkgo.Describe("RequirePermissions", func() {
		ginkgo.It("should return 401 when no identity is in the context", func() {
			rec := httptest.NewRecorder()
			guard.RequirePermissions("notice:publish")(next).ServeHTTP(rec, request(nil))
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should return 403 when the permission is missing", func() {
			rec := httptest.NewRecorder()
			identity := &Identity{ID: 1, Roles: []string{"user"}, Permissions: []string{"notice:read"}}
			guard.RequirePermissions("notice:publish")(next).ServeHTTP(rec, request(identity))
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("should pass when the permission is held", func() {
			rec := httptest.NewRecorder()
			identity := &Identity{ID: 1, Roles: []string{"notice_admin"}, Permissions: []string{"notice:publish"}}
			guard.RequirePermissions("notice:publish")(next).ServeHTTP(rec, request(identity))
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})
	})
})
