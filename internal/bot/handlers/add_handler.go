package handlers

import (
	"context"
	"fmt"

	"github.com/edgard/servermanage/internal/images"
)

// NewAddHandler returns a handler for the add action.
func NewAddHandler(deps HandlerDeps) HandlerFunc {
	return addHandler{deps}.Handle
}

type addHandler struct {
	deps HandlerDeps
}

func (h addHandler) Handle(ctx context.Context, conv Conversation, cmd *Command) {
	log := h.deps.Logger.With("handler", "add")
	req := cmd.Request
	name := cmd.Args[0]
	singular := cmd.Category.String()
	m := h.deps.Config.Messages

	if err := images.ValidateName(name); err != nil {
		replyError(ctx, h.deps, conv, cmd, err)
		return
	}
	attachment, err := images.ValidateAttachments(req.Attachments)
	if err != nil {
		log.DebugContext(ctx, "Rejected attachment", "error", err, "count", len(req.Attachments))
		replyError(ctx, h.deps, conv, cmd, err)
		return
	}

	exists, err := h.deps.Images.Exists(ctx, req.Community(), cmd.Category, name)
	if err != nil {
		replyError(ctx, h.deps, conv, cmd, err)
		return
	}
	if exists {
		confirmed := confirmOrExplain(ctx, h.deps, conv, cmd,
			fmt.Sprintf(m.OverwritePrompt, singular),
			fmt.Sprintf(m.OverwriteTimeout, singular),
			fmt.Sprintf(m.OverwriteDeclined, singular))
		if !confirmed {
			return
		}
	}

	asset, _, err := h.deps.Images.Add(ctx, req.Community(), cmd.Category, name, attachment)
	if err != nil {
		replyError(ctx, h.deps, conv, cmd, err)
		return
	}

	reply(ctx, h.deps, conv, fmt.Sprintf(m.Saved, singular, name))
	log.InfoContext(ctx, "User added an image",
		"author", req.AuthorName,
		"author_id", req.AuthorID,
		"community_id", req.CommunityID,
		"category", cmd.Category,
		"filename", asset.Filename,
		"overwrite", exists)
}
