package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/nerrad567/gray-logic-wires/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-wires/internal/infrastructure/database"
)

// runMigrate implements "wirepanel migrate [-up] [-down]". It applies or
// rolls back schema migrations on the configured database and prints the
// resulting status to out.
func runMigrate(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(out)
	up := fs.Bool("up", false, "Apply every pending migration")
	down := fs.Bool("down", false, "Roll back the most recent migration")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *up && *down {
		return fmt.Errorf("-up and -down are mutually exclusive")
	}

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close() //nolint:errcheck // read-only status output follows

	switch {
	case *up:
		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
	case *down:
		if err := db.MigrateDown(ctx); err != nil {
			return fmt.Errorf("rolling back migration: %w", err)
		}
	}

	applied, pending, err := db.GetMigrationStatus(ctx)
	if err != nil {
		return fmt.Errorf("reading migration status: %w", err)
	}
	for _, m := range applied {
		fmt.Fprintf(out, "applied  %s  %s\n", m.Version, m.AppliedAt.Format(time.RFC3339))
	}
	for _, m := range pending {
		fmt.Fprintf(out, "pending  %s  %s\n", m.Version, m.Name)
	}
	return nil
}
