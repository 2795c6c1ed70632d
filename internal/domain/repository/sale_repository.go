package repository

import (
	"context"

	"github.com/jhoicas/pos-repuestos/internal/domain/entity"
)

// SaleRepository ventas confirmadas (inmutables).
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	List(ctx context.Context, filter DateRange) ([]*entity.Sale, error)
}

// SupplyRepository aprovisionamientos confirmados (inmutables).
type SupplyRepository interface {
	Create(ctx context.Context, supply *entity.Supply) error
	GetByID(ctx context.Context, id string) (*entity.Supply, error)
	List(ctx context.Context, filter DateRange) ([]*entity.Supply, error)
}
