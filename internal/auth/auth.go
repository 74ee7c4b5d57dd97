package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the request-scoped result of authentication: the user plus the
// role and permission sets resolved from the store for this request. Role
// changes therefore take effect on the next request, without re-login.
type Identity struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	DisplayName string   `json:"displayName"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions,omitempty"`
}

// HasAnyRole reports whether the identity holds at least one of the named roles.
func (i *Identity) HasAnyRole(names ...string) bool {
	for _, have := range i.Roles {
		for _, want := range names {
			if have == want {
				return true
			}
		}
	}
	return false
}

// HasAnyPermission reports whether the identity's roles grant at least one of
// the named permissions.
func (i *Identity) HasAnyPermission(names ...string) bool {
	for _, have := range i.Permissions {
		for _, want := range names {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Claims are the JWT claims issued at login. The roles claim is informational:
// authorization always re-resolves roles from the store per request.
type Claims struct {
	UserID   int64    `json:"user_id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenGenerator creates and verifies bearer tokens.
type TokenGenerator interface {
	GenerateToken(userID int64, username string, roles []string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type JWTTokenGenerator struct {
	Secret   []byte
	TokenTTL time.Duration
}

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrWrongPassword  = errors.New("wrong password")
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenMalformed = errors.New("malformed token")
	ErrTokenExpired   = errors.New("token expired")
)

type ctxKey string

const ContextIdentityKey ctxKey = "identity"

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(ContextIdentityKey).(*Identity)
	return id, ok
}

func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ContextIdentityKey, id)
}
