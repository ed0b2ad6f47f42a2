package handlers

import "context"

// NewHelpHandler returns a handler for the help action.
func NewHelpHandler(deps HandlerDeps) HandlerFunc {
	return helpHandler{deps}.Handle
}

// helpHandler replies with the command usage.
type helpHandler struct {
	deps HandlerDeps
}

func (h helpHandler) Handle(ctx context.Context, conv Conversation, _ *Command) {
	reply(ctx, h.deps, conv, h.deps.Config.Messages.Usage)
}
