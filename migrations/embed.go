// Package migrations embeds the Postgres schema for the hospital directory.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
