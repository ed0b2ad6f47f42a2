package discord

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/edgard/servermanage/internal/images"
	"github.com/edgard/servermanage/internal/platform"
)

// guildEditor is the part of *discordgo.Session the updater needs.
type guildEditor interface {
	GuildEdit(guildID string, g *discordgo.GuildParams, options ...discordgo.RequestOption) (*discordgo.Guild, error)
}

// Updater edits guild icons and banners.
type Updater struct {
	api    guildEditor
	logger *slog.Logger
}

// NewUpdater creates an Updater on top of a Discord session.
func NewUpdater(api guildEditor, logger *slog.Logger) *Updater {
	if logger == nil {
		logger = slog.Default()
	}
	return &Updater{api: api, logger: logger.With("component", "discord_updater")}
}

// Platform implements platform.Updater.
func (u *Updater) Platform() string {
	return PlatformName
}

// Supports implements platform.Updater. Discord guilds have both icons and banners.
func (u *Updater) Supports(images.Category) bool {
	return true
}

// UpdateIcon implements platform.Updater.
func (u *Updater) UpdateIcon(ctx context.Context, guildID, filename string, data []byte) error {
	return u.edit(ctx, guildID, images.CategoryIcon, filename, &discordgo.GuildParams{Icon: dataURI(filename, data)})
}

// UpdateBanner implements platform.Updater.
func (u *Updater) UpdateBanner(ctx context.Context, guildID, filename string, data []byte) error {
	return u.edit(ctx, guildID, images.CategoryBanner, filename, &discordgo.GuildParams{Banner: dataURI(filename, data)})
}

func (u *Updater) edit(ctx context.Context, guildID string, category images.Category, filename string, params *discordgo.GuildParams) error {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	_, err := u.api.GuildEdit(guildID, params,
		discordgo.WithContext(ctx),
		discordgo.WithAuditLogReason(fmt.Sprintf("ServerManage changing %s to %s", category, name)))
	if err != nil {
		return mapError(err)
	}
	u.logger.DebugContext(ctx, "Guild edited", "guild_id", guildID, "category", category, "filename", filename)
	return nil
}

// mapError translates Discord REST failures into platform errors.
func mapError(err error) error {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return err
	}
	if restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeMissingPermissions:
			return fmt.Errorf("%w: %v", platform.ErrPermissionDenied, err)
		case discordgo.ErrCodeUnknownGuild:
			return fmt.Errorf("%w: %v", platform.ErrCommunityUnavailable, err)
		}
	}
	if restErr.Response != nil {
		switch restErr.Response.StatusCode {
		case http.StatusForbidden:
			return fmt.Errorf("%w: %v", platform.ErrPermissionDenied, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", platform.ErrCommunityUnavailable, err)
		}
	}
	return err
}

// dataURI encodes an image the way the Discord API expects image fields.
func dataURI(filename string, data []byte) string {
	mime := "image/png"
	if strings.EqualFold(filepath.Ext(filename), ".gif") {
		mime = "image/gif"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
