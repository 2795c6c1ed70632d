package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jhoicas/pos-repuestos/internal/infrastructure/spool"
)

type spoolStatus struct {
	Path   string              `json:"path"`
	Stats  spool.Stats         `json:"stats"`
	Failed []spool.FailedEntry `json:"failed"`
}

// NewSpoolCommand cola local de ventas sin conexión.
func NewSpoolCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spool",
		Short: "Cola local de ventas confirmadas sin conexión",
	}
	cmd.AddCommand(newSpoolStatusCommand(opts), newSpoolReplayCommand(opts), newSpoolRequeueCommand(opts))
	return cmd
}

func newSpoolStatusCommand(opts *RootOptions) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Lotes pendientes, aplicados y fallidos",
		RunE: func(cmd *cobra.Command, args []string) error {
			sp, p, err := openSpool(opts, path)
			if err != nil {
				return err
			}
			defer sp.Close()

			ctx := cmd.Context()
			stats, err := sp.Stats(ctx)
			if err != nil {
				return WrapExitError(ExitCommandError, "leer cola", err)
			}
			failed, err := sp.Failed(ctx)
			if err != nil {
				return WrapExitError(ExitCommandError, "leer cola", err)
			}
			out := spoolStatus{Path: p, Stats: stats, Failed: failed}
			return opts.printer(cmd).Success(out, func(w io.Writer) {
				fmt.Fprintf(w, "%s: pendientes %d, aplicados %d, fallidos %d\n", p, stats.Pending, stats.Applied, stats.Failed)
				for _, f := range failed {
					fmt.Fprintf(w, "  %s intentos=%d %s\n", f.ID, f.Attempts, f.LastError)
				}
			})
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "archivo SQLite de la cola (por defecto SPOOL_PATH)")
	return cmd
}

func newSpoolReplayCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "replay",
		Short: "Reaplica los lotes pendientes contra el almacenamiento principal",
		Long: `Reaplica en orden de llegada. Un lote rechazado por una regla de negocio queda FAILED
y no bloquea a los siguientes; si el almacenamiento no responde se detiene.

Códigos de salida:
  0 - sin lotes fallidos en esta pasada
  1 - algún lote quedó FAILED
  2 - cola desactivada o error de conexión`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := opts.container(ctx, cmd)
			if err != nil {
				return err
			}
			defer c.Close()
			if c.Replayer == nil {
				return WrapExitError(ExitCommandError, "la cola local está desactivada (SPOOL_PATH vacío)", nil)
			}

			res, err := c.Replayer.Drain(ctx)
			if err != nil {
				return WrapExitError(ExitCommandError, "reaplicar cola", err)
			}
			if err := opts.printer(cmd).Success(res, func(w io.Writer) {
				fmt.Fprintf(w, "aplicados %d, fallidos %d, pendientes %d\n", res.Applied, res.Failed, res.Pending)
			}); err != nil {
				return err
			}
			if res.Failed > 0 {
				return WrapExitError(ExitFailure, fmt.Sprintf("%d lotes fallidos", res.Failed), nil)
			}
			return nil
		},
	}
}

func newSpoolRequeueCommand(opts *RootOptions) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "requeue <batch-id>",
		Short: "Devuelve un lote fallido a pendiente",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sp, _, err := openSpool(opts, path)
			if err != nil {
				return err
			}
			defer sp.Close()
			if err := sp.Requeue(cmd.Context(), args[0]); err != nil {
				return WrapExitError(ExitFailure, "reencolar", err)
			}
			return opts.printer(cmd).Success(map[string]string{"requeued": args[0]}, func(w io.Writer) {
				fmt.Fprintf(w, "lote %s pendiente\n", args[0])
			})
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "archivo SQLite de la cola (por defecto SPOOL_PATH)")
	return cmd
}

// openSpool abre la cola en path o, si está vacío, en la ruta configurada.
func openSpool(opts *RootOptions, path string) (*spool.Spool, string, error) {
	if path == "" {
		cfg, err := opts.config()
		if err != nil {
			return nil, "", err
		}
		if !cfg.Spool.Enabled() {
			return nil, "", WrapExitError(ExitCommandError, "la cola local está desactivada (SPOOL_PATH vacío)", nil)
		}
		path = cfg.Spool.Path
	}
	sp, err := spool.Open(path)
	if err != nil {
		return nil, "", WrapExitError(ExitCommandError, "abrir cola", err)
	}
	return sp, path, nil
}
