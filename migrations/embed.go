// Package migrations embeds the PostgreSQL schema migrations.
package migrations

import "embed"

// FS holds the NNNNNN_name.{up,down}.sql files in this directory.
//
//go:embed *.sql
var FS embed.FS
