package handler

import (
	"context"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dtroode/bananaquest-server/internal/logger"
	"github.com/dtroode/bananaquest-server/internal/model"
	"github.com/dtroode/bananaquest-server/internal/service"
)

type AvatarService interface {
	Upload(ctx context.Context, caller *model.Identity, contentType string, size int64, body io.Reader) (string, error)
	Open(ctx context.Context, userID uuid.UUID) (io.ReadCloser, model.ObjectInfo, error)
}

type Avatar struct {
	avatarService  AvatarService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAvatar(avatarService AvatarService, contextManager model.ContextManager, logger *logger.Logger) *Avatar {
	return &Avatar{
		avatarService:  avatarService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type avatarResponse struct {
	Avatar string `json:"avatar"`
}

// UploadAvatar takes the raw image as the request body.
func (h *Avatar) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	contentType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		handleError(w, model.ErrInvalidAvatar, h.logger)
		return
	}

	body := http.MaxBytesReader(w, r.Body, service.MaxAvatarSize)
	url, err := h.avatarService.Upload(r.Context(), callerFromContext(r.Context(), h.contextManager), contentType, r.ContentLength, body)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, avatarResponse{Avatar: url})
}

func (h *Avatar) GetAvatar(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		handleError(w, model.ErrNotFound, h.logger)
		return
	}

	rc, info, err := h.avatarService.Open(r.Context(), userID)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", info.ContentType)
	if info.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("Avatar handler: failed to stream avatar",
			"user_id", userID,
			"error", err.Error())
	}
}
