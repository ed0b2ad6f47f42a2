package handlers

import (
	"context"
	"fmt"
	"time"
)

// RequireManage checks that the author may manage community images.
// If not, it sends the "not authorized" message and stops processing.
func RequireManage(deps HandlerDeps) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, conv Conversation, cmd *Command) {
			log := deps.Logger.With("middleware", "RequireManage")

			ok, err := conv.CanManage(ctx)
			if err != nil {
				log.ErrorContext(ctx, "Failed to check permissions",
					"error", err,
					"platform", cmd.Request.Platform,
					"community_id", cmd.Request.CommunityID,
					"author_id", cmd.Request.AuthorID)
				reply(ctx, deps, conv, deps.Config.Messages.GeneralError)
				return
			}
			if !ok {
				log.WarnContext(ctx, "Unauthorized access attempt",
					"platform", cmd.Request.Platform,
					"community_id", cmd.Request.CommunityID,
					"author_id", cmd.Request.AuthorID)
				reply(ctx, deps, conv, deps.Config.Messages.NotAuthorized)
				return
			}
			next(ctx, conv, cmd)
		}
	}
}

// RequireSupported refuses commands for a category the platform has no image for.
func RequireSupported(deps HandlerDeps) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, conv Conversation, cmd *Command) {
			if u, ok := deps.Updaters[cmd.Request.Platform]; ok && !u.Supports(cmd.Category) {
				deps.Logger.DebugContext(ctx, "Category not supported by platform",
					"platform", cmd.Request.Platform,
					"category", cmd.Category)
				reply(ctx, deps, conv, fmt.Sprintf(deps.Config.Messages.Unsupported, cmd.Category.Plural()))
				return
			}
			next(ctx, conv, cmd)
		}
	}
}

// Logging logs every dispatched command with its duration.
func Logging(deps HandlerDeps) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, conv Conversation, cmd *Command) {
			startTime := time.Now()
			log := deps.Logger.With(
				"platform", cmd.Request.Platform,
				"community_id", cmd.Request.CommunityID,
				"channel_id", cmd.Request.ChannelID,
				"author_id", cmd.Request.AuthorID,
				"category", cmd.Category,
				"action", cmd.Action,
			)
			log.InfoContext(ctx, "Processing command")
			next(ctx, conv, cmd)
			log.InfoContext(ctx, "Finished processing command", "duration", time.Since(startTime))
		}
	}
}

// reply sends text and logs a failure to do so.
func reply(ctx context.Context, deps HandlerDeps, conv Conversation, text string) {
	if err := conv.Reply(ctx, text); err != nil {
		deps.Logger.ErrorContext(ctx, "Failed to send reply", "error", err)
	}
}
