package migrations

import "embed"

// FS contains embedded SQLite migrations for scoreboard storage.
//
//go:embed *.sql
var FS embed.FS
