package migrations

import "embed"

// FS contains embedded SQLite migrations for web session storage.
//
//go:embed *.sql
var FS embed.FS
