package migration

import "embed"

const migrationsDir = "migrations"

//go:embed migrations/postgres/*.sql migrations/mysql/*.sql migrations/sqlite/schema.sql
var embeddedMigrations embed.FS
