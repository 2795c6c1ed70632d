// Package cli implementa posctl, la herramienta de operación: migraciones, conciliación
// de stock y saldos, y la cola local de ventas sin conexión.
package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jhoicas/pos-repuestos/internal/bootstrap"
	"github.com/jhoicas/pos-repuestos/pkg/config"
	"github.com/jhoicas/pos-repuestos/pkg/logger"
)

// RootOptions flags globales.
type RootOptions struct {
	Verbose bool
	Format  string // text | json

	// LoadConfig permite sustituir la lectura de configuración en tests.
	LoadConfig func() (*config.Config, error)
}

// ValidFormats formatos de salida admitidos.
var ValidFormats = []string{"text", "json"}

// NewRootCommand comando raíz de posctl.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{LoadConfig: config.Load})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "posctl",
		Short:         "Operación del POS de repuestos",
		Long:          "Migraciones de esquema, conciliación de stock y saldos, y cola local de ventas sin conexión.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return WrapExitError(ExitCommandError, fmt.Sprintf("formato %q inválido (%v)", opts.Format, ValidFormats), nil)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log detallado")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "formato de salida (text|json)")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewReconcileCommand(opts))
	cmd.AddCommand(NewSpoolCommand(opts))

	return cmd
}

func (o *RootOptions) config() (*config.Config, error) {
	cfg, err := o.LoadConfig()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "cargar configuración", err)
	}
	return cfg, nil
}

// logger log a stderr; silencioso salvo con --verbose.
func (o *RootOptions) logger(cmd *cobra.Command, cfg *config.Config) zerolog.Logger {
	level := "warn"
	if o.Verbose {
		level = "debug"
	}
	return logger.New(logger.Config{Env: cfg.App.Env, Level: level, Out: cmd.ErrOrStderr()}).Zerolog()
}

func (o *RootOptions) printer(cmd *cobra.Command) printer {
	return printer{format: o.Format, w: cmd.OutOrStdout()}
}

// container arma el grafo completo.
func (o *RootOptions) container(ctx context.Context, cmd *cobra.Command) (*bootstrap.Container, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	c, err := bootstrap.Build(ctx, cfg, o.logger(cmd, cfg))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "inicializar dependencias", err)
	}
	return c, nil
}
