// Package discord connects servermanage to Discord: it routes guild messages
// into the command dispatcher and edits guild icons and banners.
package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/edgard/servermanage/internal/bot/handlers"
	"github.com/edgard/servermanage/internal/config"
)

// PlatformName is stored with every Discord community.
const PlatformName = "discord"

// Client owns the Discord gateway session.
type Client struct {
	session *discordgo.Session
	cfg     *config.Config
	logger  *slog.Logger
}

// NewClient creates a Discord session with the intents needed to read guild
// messages. The session is not opened until Run.
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg.Discord.Token == "" {
		return nil, errors.New("discord bot token cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	token := cfg.Discord.Token
	if !strings.HasPrefix(token, "Bot ") {
		token = "Bot " + token
	}
	s, err := discordgo.New(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentGuilds | discordgo.IntentGuildMessages | discordgo.IntentMessageContent
	if cfg.Discord.RequestTimeout > 0 {
		s.Client.Timeout = cfg.Discord.RequestTimeout
	}

	return &Client{
		session: s,
		cfg:     cfg,
		logger:  logger.With("component", "discord"),
	}, nil
}

// Name identifies the transport in logs.
func (c *Client) Name() string {
	return PlatformName
}

// Updater returns the guild icon and banner updater backed by this session.
func (c *Client) Updater() *Updater {
	return NewUpdater(c.session, c.logger)
}

// RegisterDispatcher routes every guild message into d.
func (c *Client) RegisterDispatcher(ctx context.Context, d *handlers.Dispatcher) {
	c.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot {
			return
		}
		if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
			return
		}

		req := c.toRequest(m.Message)
		conv := &conversation{
			session: s,
			channel: m.ChannelID,
			guildID: m.GuildID,
			userID:  m.Author.ID,
			cfg:     c.cfg,
		}
		d.Handle(ctx, conv, req)
	})
}

// Run opens the gateway connection and blocks until ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	if err := c.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	c.logger.Info("Discord session opened")

	<-ctx.Done()

	if err := c.session.Close(); err != nil {
		c.logger.Error("Error closing discord session", "error", err)
	}
	c.logger.Info("Discord session closed")
	return nil
}

func (c *Client) toRequest(m *discordgo.Message) *handlers.Request {
	return &handlers.Request{
		Platform:      PlatformName,
		CommunityID:   m.GuildID,
		CommunityName: c.guildName(m.GuildID),
		ChannelID:     m.ChannelID,
		AuthorID:      m.Author.ID,
		AuthorName:    m.Author.Username,
		Direct:        m.GuildID == "",
		Prefix:        c.cfg.Discord.Prefix,
		Text:          m.Content,
		Attachments:   toAttachments(c.session.Client, m.Attachments),
	}
}

func (c *Client) guildName(guildID string) string {
	if guildID == "" {
		return ""
	}
	if c.session.State != nil {
		if g, err := c.session.State.Guild(guildID); err == nil {
			return g.Name
		}
	}
	return guildID
}
