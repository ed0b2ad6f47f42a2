// Package migrations embeds the SQL files that define the asset and schedule tables.
package migrations

import "embed"

// FS holds the embedded SQL migration files.
//
//go:embed *.sql
var FS embed.FS
