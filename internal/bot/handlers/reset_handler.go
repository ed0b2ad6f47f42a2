package handlers

import (
	"context"
	"fmt"

	"github.com/edgard/servermanage/internal/images"
)

// NewResetHandler returns a handler for the reset action.
func NewResetHandler(deps HandlerDeps) HandlerFunc {
	return resetHandler{deps}.Handle
}

type resetHandler struct {
	deps HandlerDeps
}

func (h resetHandler) Handle(ctx context.Context, conv Conversation, cmd *Command) {
	log := h.deps.Logger.With("handler", "reset")

	month, day, err := parseMonthDay(cmd.Args)
	if err != nil {
		replyError(ctx, h.deps, conv, cmd, err)
		return
	}

	key, err := h.deps.Images.ResetDate(ctx, cmd.Request.Community(), cmd.Category, month, day)
	if err != nil {
		replyError(ctx, h.deps, conv, cmd, err)
		return
	}
	human, err := images.HumanDate(key)
	if err != nil {
		replyError(ctx, h.deps, conv, cmd, err)
		return
	}

	reply(ctx, h.deps, conv, fmt.Sprintf(h.deps.Config.Messages.DateReset, human, cmd.Category))
	log.InfoContext(ctx, "User removed a scheduled date",
		"author_id", cmd.Request.AuthorID,
		"community_id", cmd.Request.CommunityID,
		"category", cmd.Category,
		"date_key", key)
}
