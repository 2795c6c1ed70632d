// Package engine contiene el motor de inventario y cuentas de socios: recepción de
// aprovisionamientos, ventas, asientos de socios y conversión de proformas.
//
// El motor es el único escritor de Product.Quantity, Product.CostPrice, Partner.Balance
// y de los libros de stock y de socios. Se apoya en dos primitivas de almacenamiento:
//
//   - TransactionalUpdate: lectura-escritura optimista con reintento automático ante
//     conflictos. Requiere conexión. La usan la recepción de aprovisionamientos (el costo
//     promedio depende del valor previo), la cuenta de socios y la conversión de proformas.
//   - CommutativeDelta: lote atómico de escrituras sin lectura previa, con incrementos
//     conmutativos sobre la existencia. Puede encolarse sin conexión y aplicarse después.
//     La usa el motor de ventas.
package engine

import (
	"context"
	"time"

	"github.com/jhoicas/pos-repuestos/internal/domain/entity"
	"github.com/jhoicas/pos-repuestos/internal/domain/repository"
)

// Repos repositorios atados a una misma unidad de trabajo.
type Repos struct {
	Products     repository.ProductRepository
	Movements    repository.StockMovementRepository
	Sales        repository.SaleRepository
	Supplies     repository.SupplyRepository
	Partners     repository.PartnerRepository
	Transactions repository.TransactionRepository
	Invoices     repository.InvoiceRepository
}

// TransactionalUpdate ejecuta fn dentro de una transacción optimista.
// Ante un conflicto concurrente fn se vuelve a ejecutar desde cero, por lo que no debe
// arrastrar estado entre intentos. Agotados los reintentos devuelve domain.ErrConcurrentConflict;
// sin conexión devuelve domain.ErrUnavailable sin reintentar.
type TransactionalUpdate interface {
	Run(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
}

// StockGuard política ante una venta que deja la existencia en negativo.
type StockGuard int

const (
	// AllowNegative descuento ciego: la existencia puede quedar negativa.
	AllowNegative StockGuard = iota
	// ForbidOversell el descuento sólo se aplica si la existencia resultante es >= 0,
	// evaluado dentro de la misma sentencia atómica.
	ForbidOversell
)

// QuantityDelta incremento conmutativo sobre la existencia de un producto.
type QuantityDelta struct {
	ProductID string `json:"product_id"`
	Delta     int64  `json:"delta"`
}

// Batch lote atómico: todas las escrituras se confirman juntas o ninguna.
type Batch struct {
	ID        string                 `json:"id"`
	Guard     StockGuard             `json:"guard"`
	Deltas    []QuantityDelta        `json:"deltas"`
	Movements []entity.StockMovement `json:"movements"`
	Sale      *entity.Sale           `json:"sale,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// Outcome resultado de aplicar un lote.
type Outcome int

const (
	// Applied el lote quedó confirmado en el almacenamiento.
	Applied Outcome = iota + 1
	// Queued sin conexión: el lote quedó en la cola local y se aplicará al reconectar.
	Queued
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "APPLIED"
	case Queued:
		return "QUEUED"
	}
	return "UNKNOWN"
}

// CommutativeDelta aplica lotes atómicos sin lectura previa ni detección de conflictos.
type CommutativeDelta interface {
	Apply(ctx context.Context, b *Batch) (Outcome, error)
}
