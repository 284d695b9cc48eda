// Package migrations embeds the sqlite schema for the session database.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
