// Package migrations embeds the staged SQL schema migrations.
package migrations

import "embed"

// Migrations holds the goose SQL files.
//
//go:embed *.sql
var Migrations embed.FS
