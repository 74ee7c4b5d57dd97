package auth

import (
	"log/slog"
	"net/http"
)

// Guard builds route middleware that gates on the identity resolved by
// AuthMiddleware. Each route uses either a role gate or a permission gate,
// never both.
type Guard struct {
	logger *slog.Logger
}

func NewGuard(logger *slog.Logger) *Guard {
	return &Guard{logger: logger}
}

// RequireRoles passes when the identity's role set intersects the allowed
// roles; 401 without an identity, 403 otherwise.
func (g *Guard) RequireRoles(allowed ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok || identity == nil {
				g.logger.Warn("role gate: no identity in context")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !identity.HasAnyRole(allowed...) {
				g.logger.Warn("access denied: role not allowed",
					"user_id", identity.ID,
					"allowed_roles", allowed,
					"user_roles", identity.Roles)
				http.Error(w, "Forbidden: insufficient role", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermissions passes when the identity's resolved permission set
// intersects the required permissions.
func (g *Guard) RequirePermissions(required ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok || identity == nil {
				g.logger.Warn("permission gate: no identity in context")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !identity.HasAnyPermission(required...) {
				g.logger.Warn("access denied: missing permission",
					"user_id", identity.ID,
					"required_permissions", required,
					"user_permissions", identity.Permissions)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
