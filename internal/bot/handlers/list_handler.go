package handlers

import (
	"context"
	"fmt"
	"strings"
)

// NewListHandler returns a handler for the list action.
func NewListHandler(deps HandlerDeps) HandlerFunc {
	return listHandler{deps}.Handle
}

type listHandler struct {
	deps HandlerDeps
}

func (h listHandler) Handle(ctx context.Context, conv Conversation, cmd *Command) {
	log := h.deps.Logger.With("handler", "list")
	m := h.deps.Config.Messages

	listing, err := h.deps.Images.List(ctx, cmd.Request.Community(), cmd.Category)
	if err != nil {
		replyError(ctx, h.deps, conv, cmd, err)
		return
	}
	if len(listing.Assets) == 0 {
		reply(ctx, h.deps, conv, fmt.Sprintf(m.ListEmpty, cmd.Category.Plural()))
		return
	}

	bodies := Paginate(strings.Join(listing.Lines(), "\n"), m.PageLength)
	title := fmt.Sprintf(m.ListTitle, cmd.Category, cmd.Request.CommunityName)
	pages := make([]Page, len(bodies))
	for i, body := range bodies {
		pages[i] = Page{
			Title:  title,
			Body:   body,
			Footer: fmt.Sprintf(m.ListFooter, i+1, len(bodies)),
		}
	}

	if err := conv.ReplyPages(ctx, pages); err != nil {
		log.ErrorContext(ctx, "Failed to send listing", "error", err, "pages", len(pages))
	}
}
