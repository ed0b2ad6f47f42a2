package handlers

import (
	"errors"
	"strings"

	"github.com/edgard/servermanage/internal/images"
)

// Group names the command group is reachable under.
var groupNames = []string{"servermanage", "sm"}

var (
	// ErrNotACommand is returned for messages that are not servermanage commands.
	ErrNotACommand = errors.New("not a servermanage command")
	// ErrIncompleteCommand is returned when the group is named without a category or action.
	ErrIncompleteCommand = errors.New("incomplete servermanage command")
)

// ParseCommand splits text of the form "<prefix><group> <category> <action> [args...]".
// The returned action is the word as typed; aliases are resolved by the registry.
func ParseCommand(text, prefix string) (*Command, error) {
	text = strings.TrimSpace(text)
	if prefix == "" || !strings.HasPrefix(text, prefix) {
		return nil, ErrNotACommand
	}

	fields := strings.Fields(strings.TrimPrefix(text, prefix))
	if len(fields) == 0 || !isGroupName(fields[0]) {
		return nil, ErrNotACommand
	}
	if len(fields) < 3 {
		return nil, ErrIncompleteCommand
	}

	category, err := images.ParseCategory(fields[1])
	if err != nil {
		return nil, ErrIncompleteCommand
	}

	return &Command{
		Category: category,
		Action:   strings.ToLower(fields[2]),
		Args:     fields[3:],
	}, nil
}

func isGroupName(word string) bool {
	word = strings.ToLower(word)
	for _, name := range groupNames {
		if word == name {
			return true
		}
	}
	return false
}
