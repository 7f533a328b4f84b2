package migrations

import "embed"

// FS contains embedded SQLite migrations for lexicon storage.
//
//go:embed *.sql
var FS embed.FS
