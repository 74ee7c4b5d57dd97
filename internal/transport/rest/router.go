package rest

import (
	"database/sql"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/yaojerry/office-admin/internal"
	"github.com/yaojerry/office-admin/internal/auth"
	"github.com/yaojerry/office-admin/internal/core/datamodel/identity"
	"github.com/yaojerry/office-admin/internal/department"
	"github.com/yaojerry/office-admin/internal/notice"
	"github.com/yaojerry/office-admin/internal/notification"
	"github.com/yaojerry/office-admin/internal/role"
	"github.com/yaojerry/office-admin/internal/transport/middleware"
	"github.com/yaojerry/office-admin/internal/transport/swagger"
	"github.com/yaojerry/office-admin/internal/user"
)

type Handlers struct {
	Auth         *auth.Handler
	User         *user.Handler
	Role         *role.Handler
	Department   *department.Handler
	Notice       *notice.Handler
	Notification *notification.Handler
}

func RegisterAllRoutes(router *chi.Mux, cfg *internal.Config, db *sql.DB, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)
	guard := auth.NewGuard(logger)

	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	// uploaded avatars are served as static files
	uploadsFS := http.StripPrefix(cfg.Uploads.PublicURL+"/", http.FileServer(http.Dir(filepath.Clean(cfg.Uploads.Dir))))
	router.Handle(cfg.Uploads.PublicURL+"/*", uploadsFS)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
		})

		// everything below requires a valid token
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Route("/user", func(ur chi.Router) {
				ur.Get("/profile", h.User.GetProfile)
				ur.Put("/profile", h.User.UpdateProfile)
				ur.Post("/avatar", h.User.UploadAvatar)
			})

			pr.Route("/notices", func(nr chi.Router) {
				nr.Get("/", h.Notice.ListPublished)
				nr.Get("/unread", h.Notice.Unread)
				nr.Get("/unread/count", h.Notice.UnreadCount)
				nr.Post("/{id}/read", h.Notice.MarkRead)

				// publishing and curation
				nr.Group(func(ar chi.Router) {
					ar.Use(guard.RequireRoles(identity.RoleAdmin, identity.RoleNoticeAdmin))
					ar.Post("/", h.Notice.Publish)
					ar.Get("/all", h.Notice.ListAll)
					ar.Put("/{id}", h.Notice.Edit)
					ar.Delete("/{id}", h.Notice.Delete)
					ar.Patch("/{id}/archive", h.Notice.Archive)
				})
			})

			pr.Route("/notifications", func(nr chi.Router) {
				nr.Get("/", h.Notification.ListOwn)
				nr.Get("/unread/count", h.Notification.UnreadCount)
				nr.Post("/{id}/read", h.Notification.MarkRead)

				nr.Group(func(ar chi.Router) {
					ar.Use(guard.RequireRoles(identity.RoleAdmin))
					ar.Post("/", h.Notification.Create)
				})
			})

			// permission catalog, gated on the grant rather than the role
			pr.Route("/admin/permissions", func(rr chi.Router) {
				rr.Use(guard.RequirePermissions(identity.PermRoleManage))
				rr.Get("/", h.Role.ListPermissions)
				rr.Post("/", h.Role.CreatePermission)
				rr.Delete("/{id}", h.Role.DeletePermission)
			})

			// administration
			pr.Route("/admin", func(ar chi.Router) {
				ar.Use(guard.RequireRoles(identity.RoleAdmin))

				ar.Route("/users", func(rr chi.Router) {
					rr.Get("/", h.User.List)
					rr.Post("/", h.User.Create)
					rr.Get("/{id}", h.User.Get)
					rr.Put("/{id}", h.User.Update)
					rr.Delete("/{id}", h.User.Delete)
				})

				ar.Route("/roles", func(rr chi.Router) {
					rr.Get("/", h.Role.ListRoles)
					rr.Post("/", h.Role.CreateRole)
					rr.Put("/{id}", h.Role.UpdateRole)
					rr.Delete("/{id}", h.Role.DeleteRole)
					rr.Post("/{roleID}/permissions", h.Role.GrantPermissions)
					rr.Delete("/{roleID}/permissions/{permissionID}", h.Role.RevokePermission)
				})


				ar.Route("/departments", func(rr chi.Router) {
					rr.Get("/", h.Department.List)
					rr.Post("/", h.Department.Create)
					rr.Get("/{id}", h.Department.Get)
					rr.Put("/{id}", h.Department.Update)
					rr.Delete("/{id}", h.Department.Delete)
				})

				ar.Get("/notices/export", h.Notice.Export)

				// archive toggle that can also unarchive
				ar.Patch("/notices/{id}/archived", h.Notice.SetArchived)
			})
		})
	})
}
