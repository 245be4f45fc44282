package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/dtroode/bananaquest-server/internal/logger"
	"github.com/dtroode/bananaquest-server/internal/model"
)

// MaxAvatarSize bounds uploaded avatar images.
const MaxAvatarSize = 2 << 20

var avatarTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/gif":  {},
	"image/webp": {},
}

type Avatar struct {
	users   model.UserStore
	storage model.Storage
	logger  *logger.Logger
}

func NewAvatar(users model.UserStore, storage model.Storage, logger *logger.Logger) *Avatar {
	return &Avatar{
		users:   users,
		storage: storage,
		logger:  logger,
	}
}

func avatarKey(userID uuid.UUID) string {
	return "avatars/" + userID.String()
}

// AvatarURL is the public path an uploaded avatar is served from.
func AvatarURL(userID uuid.UUID) string {
	return "/avatars/" + userID.String()
}

// Upload stores the caller's avatar and points the user record at it.
// size may be -1 when unknown.
func (a *Avatar) Upload(ctx context.Context, caller *model.Identity, contentType string, size int64, body io.Reader) (string, error) {
	if caller == nil {
		return "", model.ErrUnauthenticated
	}
	if _, ok := avatarTypes[contentType]; !ok {
		return "", model.ErrInvalidAvatar
	}
	if size > MaxAvatarSize {
		return "", model.ErrInvalidAvatar
	}

	key := avatarKey(caller.UserID)
	if err := a.storage.Upload(ctx, key, body, size, contentType); err != nil {
		a.logger.Error("Avatar service: failed to upload avatar",
			"user_id", caller.UserID,
			"error", err.Error())
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	url := AvatarURL(caller.UserID)
	if err := a.users.SetAvatar(ctx, caller.UserID, url); err != nil {
		a.logger.Error("Avatar service: failed to set avatar",
			"user_id", caller.UserID,
			"error", err.Error())
		if delErr := a.storage.Delete(ctx, key); delErr != nil {
			a.logger.Warn("Avatar service: failed to remove orphaned avatar",
				"key", key,
				"error", delErr.Error())
		}
		return "", fmt.Errorf("failed to set avatar: %w", err)
	}

	a.logger.Info("Avatar service: avatar uploaded",
		"user_id", caller.UserID)

	return url, nil
}

// Open streams a stored avatar. The caller must close the reader.
func (a *Avatar) Open(ctx context.Context, userID uuid.UUID) (io.ReadCloser, model.ObjectInfo, error) {
	key := avatarKey(userID)

	info, err := a.storage.Stat(ctx, key)
	if err != nil {
		return nil, model.ObjectInfo{}, err
	}

	rc, err := a.storage.Download(ctx, key)
	if err != nil {
		return nil, model.ObjectInfo{}, err
	}

	return rc, info, nil
}
