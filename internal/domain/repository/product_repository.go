package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-repuestos/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate lee el producto bloqueando la fila dentro de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	List(ctx context.Context, page Page) ([]*entity.Product, error)
	// Update modifica sólo campos descriptivos; nunca Quantity ni CostPrice.
	Update(ctx context.Context, product *entity.Product) error
	// ApplyDelta suma quantityDelta a la existencia y, si newCost no es nil, reemplaza el costo.
	// Sólo lo invocan los motores dentro de su unidad de trabajo. ErrNotFound si no existe.
	ApplyDelta(ctx context.Context, id string, quantityDelta int64, newCost *decimal.Decimal) error
}
