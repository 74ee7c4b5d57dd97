package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = ginkgo.Describe("AuthHandler", func() {
	var (
		handler  *Handler
		service  *Service
		mockRepo *mockUserRepository
		tokenGen *JWTTokenGenerator
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockUserRepository()
		tokenGen = NewJWTTokenGenerator("test-secret-key-that-is-long-enough", 15*time.Minute)
		service = NewService(mockRepo, tokenGen, bcrypt.MinCost)
		handler = NewHandler(service)
	})

	ginkgo.Describe("Login", func() {
		post := func(body string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
			rec := httptest.NewRecorder()
			handler.Login(rec, req)
			return rec
		}

		ginkgo.It("should return 200 with user and token for valid credentials", func() {
			rec := post(`{"username":"alice","password":"correct_password"}`)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"token"`))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"alice"`))
		})

		ginkgo.It("should return 404 for an unknown username", func() {
			rec := post(`{"username":"nobody","password":"whatever"}`)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNotFound))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("user not found"))
		})

		ginkgo.It("should return 400 for a wrong password", func() {
			rec := post(`{"username":"alice","password":"wrong"}`)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("wrong password"))
		})

		ginkgo.It("should return 400 for missing fields", func() {
			rec := post(`{"username":"","password":""}`)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})

		ginkgo.It("should return 400 for a malformed body", func() {
			rec := post(`{not json`)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("AuthMiddleware", func() {
		var protected http.Handler

		ginkgo.BeforeEach(func() {
			protected = handler.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				identity, ok := IdentityFromContext(r.Context())
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(identity).ToNot(gomega.BeNil())
				w.WriteHeader(http.StatusOK)
			}))
		})

		get := func(authorization string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if authorization != "" {
				req.Header.Set("Authorization", authorization)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)
			return rec
		}

		ginkgo.It("should return 401 without a credential", func() {
			gomega.Expect(get("").Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should return 401 for a malformed token", func() {
			gomega.Expect(get("Bearer garbage").Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should return 403 for a token signed with another secret", func() {
			otherGen := NewJWTTokenGenerator("a-completely-different-secret-value", 15*time.Minute)
			token, err := otherGen.GenerateToken(1, "alice", []string{"user"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(get("Bearer " + token).Code).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("should return 403 for an expired token", func() {
			expiredGen := &JWTTokenGenerator{Secret: []byte("test-secret-key-that-is-long-enough"), TokenTTL: -time.Minute}
			token, err := expiredGen.GenerateToken(1, "alice", []string{"user"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(get("Bearer " + token).Code).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("should return 401 when the subject no longer exists", func() {
			token, err := tokenGen.GenerateToken(999, "ghost", []string{"user"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(get("Bearer " + token).Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should inject a freshly resolved identity for a valid token", func() {
			token, err := tokenGen.GenerateToken(2, "root", []string{"admin"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(get("Bearer " + token).Code).To(gomega.Equal(http.StatusOK))
		})
	})
})
