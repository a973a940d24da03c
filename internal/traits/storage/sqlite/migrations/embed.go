package migrations

import "embed"

// FS contains embedded SQLite migrations for trait engine storage.
//
//go:embed *.sql
var FS embed.FS
