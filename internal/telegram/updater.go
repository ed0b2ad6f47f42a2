package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/servermanage/internal/images"
	"github.com/edgard/servermanage/internal/platform"
)

// photoSetter is the part of the Bot API the updater needs.
type photoSetter interface {
	SetChatPhoto(ctx context.Context, params *bot.SetChatPhotoParams) (bool, error)
}

// Updater sets group chat photos. Telegram chats have no banner.
type Updater struct {
	api    photoSetter
	logger *slog.Logger
}

// NewUpdater creates an Updater.
func NewUpdater(api photoSetter, logger *slog.Logger) *Updater {
	if logger == nil {
		logger = slog.Default()
	}
	return &Updater{api: api, logger: logger.With("component", "telegram_updater")}
}

func (u *Updater) Platform() string {
	return PlatformName
}

func (u *Updater) Supports(category images.Category) bool {
	return category == images.CategoryIcon
}

// UpdateIcon replaces the chat photo of the group identified by communityID.
func (u *Updater) UpdateIcon(ctx context.Context, communityID, filename string, data []byte) error {
	chatID, err := strconv.ParseInt(communityID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram chat id %q: %w", communityID, err)
	}

	_, err = u.api.SetChatPhoto(ctx, &bot.SetChatPhotoParams{
		ChatID: chatID,
		Photo:  &models.InputFileUpload{Filename: filename, Data: bytes.NewReader(data)},
	})
	if err != nil {
		return mapError(err)
	}
	u.logger.InfoContext(ctx, "Updated chat photo", "chat_id", chatID, "filename", filename)
	return nil
}

func (u *Updater) UpdateBanner(context.Context, string, string, []byte) error {
	return platform.ErrUnsupported
}

// mapError translates Bot API failures into platform errors.
func mapError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, bot.ErrorForbidden),
		strings.Contains(msg, "not enough rights"),
		strings.Contains(msg, "chat_admin_required"):
		return fmt.Errorf("%w: %w", platform.ErrPermissionDenied, err)
	case strings.Contains(msg, "chat not found"):
		return fmt.Errorf("%w: %w", platform.ErrCommunityUnavailable, err)
	default:
		return err
	}
}
