package migrations

import "embed"

// FS embeds the SQL migrations so the binary runs standalone.
//
//go:embed *.sql
var FS embed.FS
