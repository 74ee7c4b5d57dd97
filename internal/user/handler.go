package user

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/yaojerry/office-admin/internal/auth"
	"github.com/yaojerry/office-admin/internal/transport"
	"github.com/yaojerry/office-admin/pkg/logger"
)

type ServiceAPI interface {
	List() ([]*View, error)
	GetByID(id int64) (*View, error)
	Create(dto CreateUserDTO) (*View, error)
	Update(id int64, dto UpdateUserDTO) (*View, error)
	Delete(id int64) error
	Profile(userID int64) (*ProfileView, error)
	UpdateProfile(userID int64, dto UpdateProfileDTO) (*ProfileView, error)
	UpdateAvatar(userID int64, avatarPath string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI

	// avatar storage
	UploadDir string
	PublicURL string
	MaxBytes  int64
}

func NewHandler(svc ServiceAPI, uploadDir, publicURL string, maxBytes int64) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		UploadDir:   uploadDir,
		PublicURL:   publicURL,
		MaxBytes:    maxBytes,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.List()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	u, err := h.Service.GetByID(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.Create(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, u)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var dto UpdateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.Update(id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok || identity == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := h.Service.Profile(identity.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok || identity == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto UpdateProfileDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.Service.UpdateProfile(identity.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, profile)
}

// UploadAvatar accepts a multipart form with an "avatar" file, stores it
// under the uploads directory with a generated name, and records the public
// path on the user.
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok || identity == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		h.WriteError(w, http.StatusBadRequest, "avatar upload failed")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "avatar file is required")
		return
	}
	defer file.Close()

	dir := filepath.Join(h.UploadDir, "avatars")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		h.Logger.Error("failed to create upload dir", "dir", dir, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	filename := uuid.NewString() + filepath.Ext(header.Filename)
	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		h.Logger.Error("failed to create avatar file", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		h.Logger.Error("failed to write avatar file", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	avatarPath := h.PublicURL + "/avatars/" + filename
	if err := h.Service.UpdateAvatar(identity.ID, avatarPath); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("avatar uploaded", "user_id", identity.ID, "path", avatarPath)
	h.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "avatar uploaded",
		"avatar":  avatarPath,
	})
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return 0, false
	}
	return id, true
}
