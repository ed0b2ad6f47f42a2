package handlers

import (
	"context"
	"errors"
	"log/slog"
)

// Dispatcher routes inbound messages: replies to pending confirmation
// prompts first, then servermanage commands.
type Dispatcher struct {
	deps     HandlerDeps
	handlers map[string]RegisteredHandler
	logging  Middleware
	log      *slog.Logger
}

// NewDispatcher creates a Dispatcher over the registered handlers.
func NewDispatcher(deps HandlerDeps, handlers map[string]RegisteredHandler) *Dispatcher {
	return &Dispatcher{
		deps:     deps,
		handlers: handlers,
		logging:  Logging(deps),
		log:      deps.Logger.With("component", "dispatcher"),
	}
}

// Handle processes one message. It never returns an error: every outcome is
// turned into a reply or a log entry.
func (d *Dispatcher) Handle(ctx context.Context, conv Conversation, req *Request) {
	if req.Direct {
		return
	}

	if d.deps.Broker != nil && d.deps.Broker.Deliver(req.ConfirmKey(), req.Text) {
		d.log.DebugContext(ctx, "Message consumed by pending confirmation",
			"platform", req.Platform,
			"community_id", req.CommunityID,
			"author_id", req.AuthorID)
		return
	}

	cmd, err := ParseCommand(req.Text, req.Prefix)
	if errors.Is(err, ErrNotACommand) {
		return
	}
	if err != nil {
		reply(ctx, d.deps, conv, d.deps.Config.Messages.Usage)
		return
	}
	cmd.Request = req

	h, ok := d.handlers[cmd.Action]
	if !ok || len(cmd.Args) < h.MinArgs {
		d.log.DebugContext(ctx, "Unknown action or missing arguments", "action", cmd.Action, "args", len(cmd.Args))
		reply(ctx, d.deps, conv, d.deps.Config.Messages.Usage)
		return
	}
	cmd.Action = h.Action

	handler := applyMiddleware(h.Handler, h.Middleware)
	d.logging(handler)(ctx, conv, cmd)
}
