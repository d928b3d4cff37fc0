package migrations

import "embed"

// Files holds the numbered SQL migrations applied by db.OpenSQLite at startup.
//
//go:embed *.sql
var Files embed.FS
