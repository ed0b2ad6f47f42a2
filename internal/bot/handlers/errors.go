package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/edgard/servermanage/internal/confirm"
	"github.com/edgard/servermanage/internal/images"
	"github.com/edgard/servermanage/internal/platform"
)

// replyError turns an error into the matching user message. Errors without
// a dedicated message are logged and answered with the general error message.
func replyError(ctx context.Context, deps HandlerDeps, conv Conversation, cmd *Command, err error) {
	m := deps.Config.Messages
	singular := cmd.Category.String()

	var text string
	switch {
	case errors.Is(err, images.ErrInvalidAttachmentCount):
		text = m.AttachOne
	case errors.Is(err, images.ErrNotAnImage):
		text = m.NotAnImage
	case errors.Is(err, images.ErrUnsupportedImageFormat):
		text = m.UnsupportedExt
	case errors.Is(err, images.ErrInvalidName):
		text = m.InvalidName
	case errors.Is(err, images.ErrNameNotFound):
		text = fmt.Sprintf(m.NotFound, singular)
	case errors.Is(err, images.ErrInvalidCalendarDate):
		text = m.InvalidDate
	case errors.Is(err, images.ErrNothingScheduled):
		text = fmt.Sprintf(m.NothingScheduled, singular)
	case errors.Is(err, images.ErrFileMissing):
		text = m.FileMissing
	case errors.Is(err, platform.ErrUnsupported):
		text = fmt.Sprintf(m.Unsupported, cmd.Category.Plural())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		deps.Logger.WarnContext(ctx, "Command cancelled or timed out", "action", cmd.Action, "error", err)
		return
	default:
		deps.Logger.ErrorContext(ctx, "Command failed", "action", cmd.Action, "category", cmd.Category, "error", err)
		text = m.GeneralError
	}
	reply(ctx, deps, conv, text)
}

// confirmOrExplain asks prompt and reports whether the user confirmed. On
// timeout or decline the matching message is sent.
func confirmOrExplain(ctx context.Context, deps HandlerDeps, conv Conversation, cmd *Command, prompt, timeoutMsg, declinedMsg string) bool {
	err := deps.Broker.Ask(ctx, cmd.Request.ConfirmKey(), conv, prompt)
	switch {
	case err == nil:
		return true
	case errors.Is(err, confirm.ErrTimeout):
		reply(ctx, deps, conv, timeoutMsg)
	case errors.Is(err, confirm.ErrDeclined):
		reply(ctx, deps, conv, declinedMsg)
	default:
		replyError(ctx, deps, conv, cmd, err)
	}
	return false
}
