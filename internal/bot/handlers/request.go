// Package handlers contains the platform-neutral command surface: parsing,
// middleware, the per-action handlers and their registration.
package handlers

import (
	"context"

	"github.com/edgard/servermanage/internal/confirm"
	"github.com/edgard/servermanage/internal/database"
	"github.com/edgard/servermanage/internal/images"
)

// Request is one inbound chat message, already translated by a transport.
type Request struct {
	Platform      string
	CommunityID   string
	CommunityName string
	ChannelID     string
	AuthorID      string
	AuthorName    string
	// Direct is set for private conversations, which carry no community.
	Direct      bool
	Prefix      string
	Text        string
	Attachments []images.Attachment
}

// Community returns the community the message was sent in.
func (r *Request) Community() database.Community {
	return database.Community{Platform: r.Platform, CommunityID: r.CommunityID}
}

// ConfirmKey correlates this message with a pending prompt.
func (r *Request) ConfirmKey() confirm.Key {
	return confirm.Key{
		Platform:    r.Platform,
		CommunityID: r.CommunityID,
		ChannelID:   r.ChannelID,
		AuthorID:    r.AuthorID,
	}
}

// Page is one page of a paginated reply.
type Page struct {
	Title  string
	Body   string
	Footer string
}

// Conversation replies to the channel a Request came from.
type Conversation interface {
	confirm.Prompter
	// ReplyFile uploads data as a file named filename.
	ReplyFile(ctx context.Context, filename string, data []byte) error
	// ReplyPages sends a paginated reply.
	ReplyPages(ctx context.Context, pages []Page) error
	// CanManage reports whether the author may manage community images.
	CanManage(ctx context.Context) (bool, error)
}

// Command is a parsed servermanage command.
type Command struct {
	Request  *Request
	Category images.Category
	Action   string
	Args     []string
}

// TakesAttachment reports whether the action reads the message attachment.
func (c *Command) TakesAttachment() bool {
	return c.Action == "add" || c.Action == "create"
}
