// Package images implements the asset registry and schedule table for
// community icons and banners, plus the file store that holds their bytes.
package images

import (
	"fmt"
	"strings"
)

// Category is one of the two independent asset kinds.
type Category string

const (
	CategoryIcon   Category = "icon"
	CategoryBanner Category = "banner"
)

// Categories lists every category in the order the daily check applies them.
var Categories = []Category{CategoryIcon, CategoryBanner}

// ParseCategory accepts the singular or plural name of a category.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(s) {
	case "icon", "icons":
		return CategoryIcon, nil
	case "banner", "banners":
		return CategoryBanner, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
}

func (c Category) String() string {
	return string(c)
}

// Plural returns the plural form used for directory names and messages.
func (c Category) Plural() string {
	return string(c) + "s"
}
