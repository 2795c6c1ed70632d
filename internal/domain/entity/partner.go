package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de socio.
const (
	PartnerTypeClient   = "CLIENT"
	PartnerTypeSupplier = "SUPPLIER"
)

// Partner cliente o proveedor con saldo firmado.
// Balance > 0: el socio le debe a la tienda. Balance < 0: la tienda le debe al socio.
type Partner struct {
	ID          string
	Name        string
	Type        string
	Balance     decimal.Decimal
	CreditLimit decimal.Decimal // cero = sin límite (sólo clientes)
	Phone       string
	Email       string
	Address     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsValidPartnerType valida el tipo de socio.
func IsValidPartnerType(t string) bool {
	return t == PartnerTypeClient || t == PartnerTypeSupplier
}
