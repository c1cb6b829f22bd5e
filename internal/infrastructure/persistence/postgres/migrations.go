package postgres

import "embed"

// Migrations holds the schema, applied with pkg/postgres.Migrator.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations that holds the SQL files.
const MigrationsDir = "migrations"
