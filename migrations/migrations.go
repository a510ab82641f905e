// Package migrations embeds the SQLite schema.
package migrations

import "embed"

//go:embed *.up.sql
var FS embed.FS
