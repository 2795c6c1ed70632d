package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewReconcileCommand compara stock y saldos contra sus libros.
func NewReconcileCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Detecta descuadres entre stock/saldos y sus libros",
		Long: `Recalcula la existencia de cada producto (inicial + movimientos) y el saldo de cada
socio (suma de asientos) y los compara con los valores almacenados.

Códigos de salida:
  0 - todo cuadra
  1 - hay descuadres
  2 - error de configuración o conexión`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := opts.container(ctx, cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			report, err := c.ReportUC.Reconcile(ctx)
			if err != nil {
				return WrapExitError(ExitCommandError, "conciliar", err)
			}
			err = opts.printer(cmd).Success(report, func(w io.Writer) {
				fmt.Fprintf(w, "productos revisados: %d, socios revisados: %d\n", report.ProductsChecked, report.PartnersChecked)
				for _, d := range report.StockDrifts {
					fmt.Fprintf(w, "  stock  %s (%s): almacenado %d, libro %d\n", d.ProductName, d.ProductID, d.Quantity, d.Expected)
				}
				for _, d := range report.BalanceDrifts {
					fmt.Fprintf(w, "  saldo  %s (%s): almacenado %s, libro %s\n", d.PartnerName, d.PartnerID, d.Balance, d.Expected)
				}
			})
			if err != nil {
				return err
			}
			if !report.Consistent() {
				return WrapExitError(ExitFailure, fmt.Sprintf("%d descuadres de stock, %d de saldo", len(report.StockDrifts), len(report.BalanceDrifts)), nil)
			}
			return nil
		},
	}
}
