package handlers

import (
	"log/slog"

	"github.com/edgard/servermanage/internal/config"
	"github.com/edgard/servermanage/internal/confirm"
	"github.com/edgard/servermanage/internal/images"
	"github.com/edgard/servermanage/internal/platform"
)

// HandlerDeps provides dependencies for command handlers.
type HandlerDeps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Images   *images.Service
	Broker   *confirm.Broker
	Updaters platform.Registry
}
