package engine

import (
	"fmt"

	"github.com/jhoicas/pos-repuestos/internal/domain"
)

// PartialCommitError la venta quedó confirmada pero el asiento en la cuenta del cliente falló.
// No se revierte la venta: el asiento se reintenta de forma independiente.
type PartialCommitError struct {
	SaleID string
	Err    error
}

func (e *PartialCommitError) Error() string {
	return fmt.Sprintf("venta %s: %s: %v", e.SaleID, domain.ErrPartialCommit.Error(), e.Err)
}

// Is permite errors.Is(err, domain.ErrPartialCommit).
func (e *PartialCommitError) Is(target error) bool {
	return target == domain.ErrPartialCommit
}

func (e *PartialCommitError) Unwrap() error { return e.Err }
