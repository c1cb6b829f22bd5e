package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/infrastructure/config"
	pgrepo "github.com/BuildZone-Tech/gerenciador-de-dividas/internal/infrastructure/persistence/postgres"
	pgutil "github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/postgres"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(func(m *pgutil.Migrator) error {
				if err := m.Down(steps); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations rolled back")
				return nil
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back; 0 rolls back all")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(func(m *pgutil.Migrator) error {
					if err := m.Up(); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
					return nil
				})
			},
		},
		down,
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(func(m *pgutil.Migrator) error {
					v, dirty, err := m.Version()
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "version %d dirty=%t\n", v, dirty)
					return nil
				})
			},
		},
	)
	return cmd
}

func withMigrator(fn func(m *pgutil.Migrator) error) error {
	cfg := config.Load()
	if cfg.DB.Password == "" {
		return errors.New("DB_PASSWORD environment variable is required")
	}

	m, err := pgutil.NewMigrator(pgrepo.Migrations, pgrepo.MigrationsDir, databaseConfig(cfg).DSN())
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(m)
}

func migrateUp(dsn string) error {
	m, err := pgutil.NewMigrator(pgrepo.Migrations, pgrepo.MigrationsDir, dsn)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}
