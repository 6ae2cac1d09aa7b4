package chatbot

import "embed"

// MigrationsFS holds the versioned schema migrations applied at startup.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
