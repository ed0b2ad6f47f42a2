package database

import (
	"fmt"
	"time"
)

// Community identifies a chat community on a specific platform, such as a
// Discord guild or a Telegram group. IDs are only unique within a platform.
type Community struct {
	Platform    string `db:"platform"`
	CommunityID string `db:"community_id"`
}

func (c Community) String() string {
	return fmt.Sprintf("%s/%s", c.Platform, c.CommunityID)
}

// Asset is an Asset Registry entry: a named image stored on disk for one
// community and category.
type Asset struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Community
	Category string `db:"category"`
	Name     string `db:"name"`
	Filename string `db:"filename"`
}

// Schedule is a Schedule Table entry mapping a recurring "MM-DD" date key to
// an asset name.
type Schedule struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Community
	Category  string `db:"category"`
	DateKey   string `db:"date_key"`
	AssetName string `db:"asset_name"`
}

// DueAsset is a schedule entry for a given date joined with the asset it
// points at. Filename is empty when the asset mapping no longer exists.
type DueAsset struct {
	Community
	Category  string `db:"category"`
	DateKey   string `db:"date_key"`
	AssetName string `db:"asset_name"`
	Filename  string `db:"filename"`
}
