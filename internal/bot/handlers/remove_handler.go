package handlers

import (
	"context"
	"fmt"
)

// NewRemoveHandler returns a handler for the remove action.
func NewRemoveHandler(deps HandlerDeps) HandlerFunc {
	return removeHandler{deps}.Handle
}

type removeHandler struct {
	deps HandlerDeps
}

func (h removeHandler) Handle(ctx context.Context, conv Conversation, cmd *Command) {
	log := h.deps.Logger.With("handler", "remove")
	req := cmd.Request
	name := cmd.Args[0]
	singular := cmd.Category.String()
	m := h.deps.Config.Messages

	if _, err := h.deps.Images.Get(ctx, req.Community(), cmd.Category, name); err != nil {
		replyError(ctx, h.deps, conv, cmd, err)
		return
	}

	confirmed := confirmOrExplain(ctx, h.deps, conv, cmd,
		m.DeletePrompt,
		fmt.Sprintf(m.DeleteTimeout, singular),
		fmt.Sprintf(m.DeleteDeclined, singular))
	if !confirmed {
		return
	}

	result, err := h.deps.Images.Remove(ctx, req.Community(), cmd.Category, name)
	if err != nil {
		replyError(ctx, h.deps, conv, cmd, err)
		return
	}

	reply(ctx, h.deps, conv, fmt.Sprintf(m.Deleted, singular, name))
	log.InfoContext(ctx, "User deleted an image",
		"author", req.AuthorName,
		"author_id", req.AuthorID,
		"community_id", req.CommunityID,
		"category", cmd.Category,
		"filename", result.Asset.Filename,
		"unscheduled_dates", result.UnscheduledDates,
		"file_missing", result.FileMissing)
}
