// Package migrations embeds the schema migrations of both supported dialects.
package migrations

import "embed"

// SQLite holds the migrations applied to the local SQLite store.
//
//go:embed sqlite/*.sql
var SQLite embed.FS

// Postgres holds the migrations applied to a PostgreSQL deployment.
//
//go:embed postgres/*.sql
var Postgres embed.FS
