// Package telegram connects servermanage to Telegram groups: it routes group
// messages into the command dispatcher and sets group chat photos.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/servermanage/internal/bot/handlers"
	"github.com/edgard/servermanage/internal/config"
)

// PlatformName is stored with every Telegram community.
const PlatformName = "telegram"

// CommandPrefix starts every Telegram bot command.
const CommandPrefix = "/"

// Client owns the Telegram long-polling bot.
type Client struct {
	bot        *bot.Bot
	cfg        *config.Config
	logger     *slog.Logger
	files      *downloader
	dispatcher atomic.Pointer[handlers.Dispatcher]
}

// NewClient creates a Telegram bot instance using the go-telegram/bot library.
// Updates are dropped until RegisterDispatcher is called.
func NewClient(cfg *config.Config, logger *slog.Logger, opts ...bot.Option) (*Client, error) {
	token := cfg.Telegram.Token
	if token == "" {
		return nil, errors.New("telegram bot token cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		cfg:    cfg,
		logger: logger.With("component", "telegram_bot"),
	}

	opts = append([]bot.Option{
		bot.WithMiddlewares(Middleware(c.logger)),
		bot.WithDefaultHandler(c.handleUpdate),
	}, opts...)

	b, err := bot.New(token, opts...)
	if err != nil {
		c.logger.Error("Failed to create Telegram bot instance", "error", err)
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	c.bot = b
	c.files = newDownloader(b, token)

	c.logger.Info("Telegram bot instance created successfully")
	return c, nil
}

// Name identifies the transport in logs.
func (c *Client) Name() string {
	return PlatformName
}

// Updater returns the chat photo updater backed by this bot.
func (c *Client) Updater() *Updater {
	return NewUpdater(c.bot, c.logger)
}

// RegisterDispatcher routes every group message into d. Handlers run with the
// context of the polling loop.
func (c *Client) RegisterDispatcher(_ context.Context, d *handlers.Dispatcher) {
	c.dispatcher.Store(d)
}

// Run long-polls for updates and blocks until ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	c.bot.Start(ctx)
	if ctx.Err() == nil {
		return errors.New("telegram listener stopped unexpectedly")
	}
	return nil
}

func (c *Client) handleUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	d := c.dispatcher.Load()
	msg := update.Message
	if d == nil || msg == nil || msg.From == nil || msg.From.IsBot {
		return
	}

	req := toRequest(msg)
	if req.Text == "" {
		return
	}
	req.Attachments = resolveAttachments(ctx, c.files, msg, req.Text, c.logger)

	conv := &conversation{
		api:      c.bot,
		chatID:   msg.Chat.ID,
		threadID: msg.MessageThreadID,
		userID:   msg.From.ID,
		cfg:      c.cfg,
	}
	d.Handle(ctx, conv, req)
}

// toRequest translates a Telegram message. The "@botname" suffix Telegram
// appends to commands in groups is removed.
func toRequest(msg *models.Message) *handlers.Request {
	text := msg.Text
	if text == "" {
		text = msg.Caption
	}

	channel := strconv.FormatInt(msg.Chat.ID, 10)
	if msg.MessageThreadID != 0 {
		channel += ":" + strconv.Itoa(msg.MessageThreadID)
	}

	name := msg.From.Username
	if name == "" {
		name = msg.From.FirstName
	}

	return &handlers.Request{
		Platform:      PlatformName,
		CommunityID:   strconv.FormatInt(msg.Chat.ID, 10),
		CommunityName: msg.Chat.Title,
		ChannelID:     channel,
		AuthorID:      strconv.FormatInt(msg.From.ID, 10),
		AuthorName:    name,
		Direct:        msg.Chat.Type == models.ChatTypePrivate,
		Prefix:        CommandPrefix,
		Text:          stripBotMention(text),
	}
}

func stripBotMention(text string) string {
	if !strings.HasPrefix(text, CommandPrefix) {
		return text
	}
	first, rest, _ := strings.Cut(text, " ")
	if at := strings.Index(first, "@"); at > 0 {
		first = first[:at]
	}
	if rest == "" {
		return first
	}
	return first + " " + rest
}
