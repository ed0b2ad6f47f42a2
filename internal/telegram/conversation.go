package telegram

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/servermanage/internal/bot/handlers"
	"github.com/edgard/servermanage/internal/config"
)

// messenger is the part of the Bot API a conversation needs.
type messenger interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendDocument(ctx context.Context, params *bot.SendDocumentParams) (*models.Message, error)
	GetChatMember(ctx context.Context, params *bot.GetChatMemberParams) (*models.ChatMember, error)
}

// conversation replies in the chat (and forum topic) a message came from.
type conversation struct {
	api      messenger
	chatID   int64
	threadID int
	userID   int64
	cfg      *config.Config
}

func (c *conversation) Reply(ctx context.Context, text string) error {
	_, err := c.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          c.chatID,
		MessageThreadID: c.threadID,
		Text:            text,
	})
	return err
}

func (c *conversation) ReplyFile(ctx context.Context, filename string, data []byte) error {
	_, err := c.api.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID:          c.chatID,
		MessageThreadID: c.threadID,
		Document:        &models.InputFileUpload{Filename: filename, Data: bytes.NewReader(data)},
	})
	return err
}

func (c *conversation) ReplyPages(ctx context.Context, pages []handlers.Page) error {
	for _, p := range pages {
		if err := c.Reply(ctx, pageText(p)); err != nil {
			return fmt.Errorf("failed to send page %q: %w", p.Footer, err)
		}
	}
	return nil
}

func (c *conversation) CanManage(ctx context.Context) (bool, error) {
	if c.cfg.IsTelegramAdmin(c.userID) {
		return true, nil
	}
	member, err := c.api.GetChatMember(ctx, &bot.GetChatMemberParams{ChatID: c.chatID, UserID: c.userID})
	if err != nil {
		return false, fmt.Errorf("failed to resolve chat member: %w", err)
	}
	return canManage(member), nil
}

// canManage accepts the chat owner and administrators allowed to change chat info.
func canManage(member *models.ChatMember) bool {
	if member == nil {
		return false
	}
	switch member.Type {
	case models.ChatMemberTypeOwner:
		return true
	case models.ChatMemberTypeAdministrator:
		return member.Administrator != nil && member.Administrator.CanChangeInfo
	default:
		return false
	}
}

func pageText(p handlers.Page) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.Title, p.Body, p.Footer} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}
