// Package migrations embeds the schema migrations for the SQL store backends.
package migrations

import "embed"

// Postgres contains the PostgreSQL migrations, applied by cmd/migrate.
//
//go:embed postgres/*.sql
var Postgres embed.FS

// SQLite contains the SQLite migrations, applied when the store is opened.
//
//go:embed sqlite/*.sql
var SQLite embed.FS
