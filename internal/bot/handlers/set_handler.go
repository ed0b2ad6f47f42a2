package handlers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/edgard/servermanage/internal/images"
)

// NewSetHandler returns a handler for the set action.
func NewSetHandler(deps HandlerDeps) HandlerFunc {
	return setHandler{deps}.Handle
}

type setHandler struct {
	deps HandlerDeps
}

func (h setHandler) Handle(ctx context.Context, conv Conversation, cmd *Command) {
	log := h.deps.Logger.With("handler", "set")

	month, day, err := parseMonthDay(cmd.Args)
	if err != nil {
		replyError(ctx, h.deps, conv, cmd, err)
		return
	}
	name := cmd.Args[2]

	key, err := h.deps.Images.SetDate(ctx, cmd.Request.Community(), cmd.Category, month, day, name)
	if err != nil {
		replyError(ctx, h.deps, conv, cmd, err)
		return
	}
	human, err := images.HumanDate(key)
	if err != nil {
		replyError(ctx, h.deps, conv, cmd, err)
		return
	}

	reply(ctx, h.deps, conv, fmt.Sprintf(h.deps.Config.Messages.DateSet, human, cmd.Category, name))
	log.InfoContext(ctx, "User scheduled an image",
		"author_id", cmd.Request.AuthorID,
		"community_id", cmd.Request.CommunityID,
		"category", cmd.Category,
		"date_key", key,
		"name", name)
}

// parseMonthDay reads the first two arguments as month and day numbers.
func parseMonthDay(args []string) (int, int, error) {
	month, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: month %q", images.ErrInvalidCalendarDate, args[0])
	}
	day, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: day %q", images.ErrInvalidCalendarDate, args[1])
	}
	return month, day, nil
}
