package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de asiento en la cuenta de un socio.
const (
	TransactionTypeInvoice = "INVOICE"
	TransactionTypePayment = "PAYMENT"
)

// Transaction asiento inmutable de la cuenta de un socio. Amount ya trae el signo aplicado.
type Transaction struct {
	ID          string
	Date        time.Time
	PartnerID   string
	Type        string
	Amount      decimal.Decimal
	Description string
	ReferenceID string // venta o aprovisionamiento asociado (opcional)
	PerformedBy string
}
