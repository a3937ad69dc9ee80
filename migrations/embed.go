// Package migrations embeds the SQL schema migrations for the event_reports table.
package migrations

import "embed"

// FS holds the versioned up/down migration files.
//
//go:embed *.sql
var FS embed.FS
