// Package migrations embeds the goose SQL migrations applied by the API
// service on startup.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
