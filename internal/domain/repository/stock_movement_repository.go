package repository

import (
	"context"

	"github.com/jhoicas/pos-repuestos/internal/domain/entity"
)

// StockMovementRepository libro de stock, sólo inserción.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
	// NetByProduct suma firmada de movimientos por producto.
	NetByProduct(ctx context.Context) (map[string]int64, error)
}
