// Package migrations embeds the goose migration scripts so they can be
// applied by the binary without a migrations directory on disk.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
