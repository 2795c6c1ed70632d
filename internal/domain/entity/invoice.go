package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento.
const (
	InvoiceTypeProforma = "PROFORMA"
	InvoiceTypeInvoice  = "INVOICE"
)

// Estados del documento. DRAFT puede pasar a CONVERTED_TO_SALE, CANCELLED o SENT.
const (
	InvoiceStatusDraft     = "DRAFT"
	InvoiceStatusConverted = "CONVERTED_TO_SALE"
	InvoiceStatusCancelled = "CANCELLED"
	InvoiceStatusSent      = "SENT"
)

// Invoice proforma o factura. Una proforma en DRAFT no tiene efecto en inventario ni en cuentas.
type Invoice struct {
	ID         string
	Type       string
	Number     string
	Date       time.Time
	ValidUntil *time.Time
	ClientName string
	Items      []InvoiceItem
	Total      decimal.Decimal
	Status     string
	SaleID     string // venta generada al convertir
	CreatedAt  time.Time
	CreatedBy  string
}

// InvoiceItem línea del documento.
type InvoiceItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// IsConvertible indica si la proforma todavía puede convertirse en venta.
func (i *Invoice) IsConvertible() bool {
	return i.Type == InvoiceTypeProforma && i.Status == InvoiceStatusDraft
}

// IsExpired indica si venció la validez de la proforma.
func (i *Invoice) IsExpired(now time.Time) bool {
	return i.ValidUntil != nil && now.After(*i.ValidUntil)
}
