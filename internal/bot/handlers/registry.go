package handlers

import "context"

// HandlerFunc handles one parsed command.
type HandlerFunc func(ctx context.Context, conv Conversation, cmd *Command)

// Middleware wraps a HandlerFunc.
type Middleware func(next HandlerFunc) HandlerFunc

// RegisteredHandler represents an action handler with its aliases and middleware.
type RegisteredHandler struct {
	Action     string
	Aliases    []string
	MinArgs    int
	Handler    HandlerFunc
	Middleware []Middleware
}

// RegisterAllCommands initializes and returns every action of the
// servermanage command group, keyed by action name and by alias.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	manage := []Middleware{RequireManage(deps), RequireSupported(deps)}

	registered := []RegisteredHandler{
		{Action: "help", Handler: NewHelpHandler(deps)},
		{Action: "add", Aliases: []string{"create"}, MinArgs: 1, Handler: NewAddHandler(deps), Middleware: manage},
		{Action: "remove", Aliases: []string{"rm", "del", "delete"}, MinArgs: 1, Handler: NewRemoveHandler(deps), Middleware: manage},
		{Action: "show", MinArgs: 1, Handler: NewShowHandler(deps), Middleware: manage},
		{Action: "list", Aliases: []string{"ls"}, Handler: NewListHandler(deps), Middleware: manage},
		{Action: "set", MinArgs: 3, Handler: NewSetHandler(deps), Middleware: manage},
		{Action: "reset", MinArgs: 2, Handler: NewResetHandler(deps), Middleware: manage},
	}

	handlers := make(map[string]RegisteredHandler, len(registered)*2)
	for _, h := range registered {
		handlers[h.Action] = h
		for _, alias := range h.Aliases {
			handlers[alias] = h
		}
	}
	return handlers
}

// applyMiddleware wraps a handler with a slice of middleware.
// Middleware are applied in reverse order so the first one in the slice is the outermost.
func applyMiddleware(handler HandlerFunc, mw []Middleware) HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	return handler
}
