package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jhoicas/pos-repuestos/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-repuestos/pkg/config"
)

type schemaVersion struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

// NewMigrateCommand migraciones de PostgreSQL.
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migraciones del esquema PostgreSQL",
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Revierte N migraciones",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(opts, cmd, func(mg *postgres.Migrator) error { return mg.Down(steps) })
		},
	}
	down.Flags().IntVarP(&steps, "steps", "n", 1, "migraciones a revertir")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Aplica las migraciones pendientes",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(opts, cmd, func(mg *postgres.Migrator) error { return mg.Up() })
			},
		},
		down,
		&cobra.Command{
			Use:   "version",
			Short: "Versión actual del esquema",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(opts, cmd, func(mg *postgres.Migrator) error {
					v, dirty, err := mg.Version()
					if err != nil {
						return err
					}
					out := schemaVersion{Version: v, Dirty: dirty}
					return opts.printer(cmd).Success(out, func(w io.Writer) {
						fmt.Fprintf(w, "versión %d (dirty=%t)\n", v, dirty)
					})
				})
			},
		},
	)
	return cmd
}

func withMigrator(opts *RootOptions, cmd *cobra.Command, fn func(*postgres.Migrator) error) error {
	cfg, err := opts.config()
	if err != nil {
		return err
	}
	if cfg.DB.Driver != config.StoragePostgres {
		return WrapExitError(ExitCommandError, fmt.Sprintf("migrate requiere STORAGE_DRIVER=postgres (actual %q)", cfg.DB.Driver), nil)
	}
	mg, err := postgres.NewMigrator(cfg.DB.ConnectionString(), cfg.DB.MigrationsDir, opts.logger(cmd, cfg))
	if err != nil {
		return WrapExitError(ExitCommandError, "abrir migraciones", err)
	}
	defer mg.Close()
	if err := fn(mg); err != nil {
		return WrapExitError(ExitFailure, "migración", err)
	}
	return nil
}
