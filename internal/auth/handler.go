package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/yaojerry/office-admin/internal/transport"
	"github.com/yaojerry/office-admin/pkg/logger"
)

type ServiceAPI interface {
	Login(dto LoginDTO) (*LoginResponse, error)
	ValidateToken(tokenString string) (*Claims, error)
	ResolveIdentity(userID int64) (*Identity, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.Login(dto)
	if err != nil {
		h.Logger.Warn("login failed", "username", dto.Username, "error", err)

		switch {
		case errors.Is(err, ErrUserNotFound):
			h.WriteError(w, http.StatusNotFound, "user not found")
		case errors.Is(err, ErrWrongPassword):
			h.WriteError(w, http.StatusBadRequest, "wrong password")
		default:
			if _, ok := err.(ValidationError); ok {
				h.WriteError(w, http.StatusBadRequest, err.Error())
			} else {
				h.WriteError(w, http.StatusInternalServerError, "internal server error")
			}
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// AuthMiddleware verifies the bearer token and resolves the subject to a live
// identity. A missing or malformed credential is 401; a credential that fails
// signature or expiry verification is 403; a subject whose user row no longer
// exists is 401.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "no credentials provided")
			return
		}

		claims, err := h.Service.ValidateToken(token)
		if err != nil {
			if errors.Is(err, ErrTokenMalformed) {
				h.WriteError(w, http.StatusUnauthorized, "malformed token")
				return
			}
			h.WriteError(w, http.StatusForbidden, "invalid token")
			return
		}

		identity, err := h.Service.ResolveIdentity(claims.UserID)
		if err != nil {
			h.Logger.Warn("token subject no longer exists", "user_id", claims.UserID, "error", err)
			h.WriteError(w, http.StatusUnauthorized, "user not found")
			return
		}

		ctx := ContextWithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
