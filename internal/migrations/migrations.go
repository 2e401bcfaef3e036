// Package migrations embeds the SQL schema of the two journal databases.
// Every statement is idempotent so that databases created before schema
// versioning was introduced open cleanly.
package migrations

import "embed"

//go:embed entries/*.sql auth/*.sql
var FS embed.FS

const (
	// EntriesDir holds the journal.db schema.
	EntriesDir = "entries"
	// AuthDir holds the journal_auth.db schema.
	AuthDir = "auth"
)
