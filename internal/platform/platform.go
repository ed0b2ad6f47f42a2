// Package platform defines what the daily applier and the command surface need
// from a chat platform: pushing a new community icon or banner.
package platform

import (
	"context"
	"errors"

	"github.com/edgard/servermanage/internal/images"
)

var (
	// ErrPermissionDenied is returned when the bot lacks the right to edit the community.
	ErrPermissionDenied = errors.New("permission denied by platform")
	// ErrUnsupported is returned when the platform has no such community image.
	ErrUnsupported = errors.New("not supported by platform")
	// ErrCommunityUnavailable is returned when the bot is no longer in the community.
	ErrCommunityUnavailable = errors.New("community unavailable")
)

// Updater pushes community images to a platform.
type Updater interface {
	// Platform returns the platform name stored with each community.
	Platform() string
	// Supports reports whether the platform has a community image of this category.
	Supports(category images.Category) bool
	// UpdateIcon replaces the community icon.
	UpdateIcon(ctx context.Context, communityID, filename string, data []byte) error
	// UpdateBanner replaces the community banner.
	UpdateBanner(ctx context.Context, communityID, filename string, data []byte) error
}

// Apply dispatches to UpdateIcon or UpdateBanner.
func Apply(ctx context.Context, u Updater, category images.Category, communityID, filename string, data []byte) error {
	if !u.Supports(category) {
		return ErrUnsupported
	}
	switch category {
	case images.CategoryIcon:
		return u.UpdateIcon(ctx, communityID, filename, data)
	case images.CategoryBanner:
		return u.UpdateBanner(ctx, communityID, filename, data)
	default:
		return ErrUnsupported
	}
}

// Registry maps platform names to their updaters.
type Registry map[string]Updater

// NewRegistry builds a Registry from updaters, skipping nil entries.
func NewRegistry(updaters ...Updater) Registry {
	r := make(Registry, len(updaters))
	for _, u := range updaters {
		if u != nil {
			r[u.Platform()] = u
		}
	}
	return r
}
