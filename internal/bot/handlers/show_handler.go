package handlers

import "context"

// NewShowHandler returns a handler for the show action.
func NewShowHandler(deps HandlerDeps) HandlerFunc {
	return showHandler{deps}.Handle
}

type showHandler struct {
	deps HandlerDeps
}

func (h showHandler) Handle(ctx context.Context, conv Conversation, cmd *Command) {
	log := h.deps.Logger.With("handler", "show")

	asset, data, err := h.deps.Images.Open(ctx, cmd.Request.Community(), cmd.Category, cmd.Args[0])
	if err != nil {
		replyError(ctx, h.deps, conv, cmd, err)
		return
	}

	if err := conv.ReplyFile(ctx, asset.Filename, data); err != nil {
		log.ErrorContext(ctx, "Failed to upload image", "error", err, "filename", asset.Filename)
	}
}
