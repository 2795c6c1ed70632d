package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-repuestos/internal/domain/entity"
)

// PartnerRepository clientes y proveedores.
type PartnerRepository interface {
	Create(ctx context.Context, partner *entity.Partner) error
	GetByID(ctx context.Context, id string) (*entity.Partner, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Partner, error)
	// List filtra por tipo; vacío devuelve todos.
	List(ctx context.Context, partnerType string) ([]*entity.Partner, error)
	// SetBalance escribe el saldo cacheado. Sólo la cuenta de socios lo invoca, junto con el asiento.
	SetBalance(ctx context.Context, id string, balance decimal.Decimal) error
}

// TransactionRepository asientos de la cuenta de socios, sólo inserción.
type TransactionRepository interface {
	// Create devuelve ErrDuplicate si ya existe un asiento con el mismo socio, tipo y ReferenceID.
	Create(ctx context.Context, tx *entity.Transaction) error
	ListByPartner(ctx context.Context, partnerID string) ([]*entity.Transaction, error)
	GetByReference(ctx context.Context, partnerID, txType, referenceID string) (*entity.Transaction, error)
	// NetByPartner suma de asientos por socio.
	NetByPartner(ctx context.Context) (map[string]decimal.Decimal, error)
}
