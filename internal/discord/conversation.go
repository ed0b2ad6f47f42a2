package discord

import (
	"bytes"
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/edgard/servermanage/internal/bot/handlers"
	"github.com/edgard/servermanage/internal/config"
)

// manageMask is the set of permissions that allow managing server images.
const manageMask = discordgo.PermissionManageServer | discordgo.PermissionAdministrator

// conversation replies in the channel a message came from.
type conversation struct {
	session *discordgo.Session
	channel string
	guildID string
	userID  string
	cfg     *config.Config
}

func (c *conversation) Reply(ctx context.Context, text string) error {
	_, err := c.session.ChannelMessageSend(c.channel, text, discordgo.WithContext(ctx))
	return err
}

func (c *conversation) ReplyFile(ctx context.Context, filename string, data []byte) error {
	_, err := c.session.ChannelFileSend(c.channel, filename, bytes.NewReader(data), discordgo.WithContext(ctx))
	return err
}

func (c *conversation) ReplyPages(ctx context.Context, pages []handlers.Page) error {
	for _, p := range pages {
		if _, err := c.session.ChannelMessageSendEmbed(c.channel, pageEmbed(p), discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("failed to send page %q: %w", p.Footer, err)
		}
	}
	return nil
}

func (c *conversation) CanManage(ctx context.Context) (bool, error) {
	if c.cfg.IsDiscordAdmin(c.userID) {
		return true, nil
	}
	perms, err := c.session.UserChannelPermissions(c.userID, c.channel, discordgo.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("failed to resolve permissions: %w", err)
	}
	return canManage(perms), nil
}

func canManage(perms int64) bool {
	return perms&manageMask != 0
}

func pageEmbed(p handlers.Page) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       p.Title,
		Description: p.Body,
		Footer:      &discordgo.MessageEmbedFooter{Text: p.Footer},
	}
}
