// Package migrations holds the database schema history. Each migration file
// registers an up/down pair into Migrations via init; cmd/db.go runs them
// through bun's migrator.
package migrations

import "github.com/uptrace/bun/migrate"

// Migrations is the collection every migration file registers into.
var Migrations = migrate.NewMigrations()
