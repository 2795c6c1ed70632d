package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medios de pago aceptados en caja.
const (
	PaymentCash        = "CASH"
	PaymentMobileMoney = "MOBILE_MONEY"
	PaymentCard        = "CARD"
	PaymentCredit      = "CREDIT"
)

// DefaultCustomerName cliente por defecto en ventas de mostrador.
const DefaultCustomerName = "Client Comptoir"

// IsValidPaymentMethod valida el medio de pago.
func IsValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentMobileMoney, PaymentCard, PaymentCredit:
		return true
	}
	return false
}

// Sale cabecera de venta con la foto de precios y costos al momento de la transacción.
type Sale struct {
	ID            string           `json:"id"`
	Date          time.Time        `json:"date"`
	CustomerName  string           `json:"customer_name"`
	Total         decimal.Decimal  `json:"total"`
	PaymentMethod string           `json:"payment_method"`
	AmountPaid    *decimal.Decimal `json:"amount_paid,omitempty"`
	Reference     string           `json:"reference,omitempty"`
	PartnerID     string           `json:"partner_id,omitempty"` // cliente a crédito
	InvoiceID     string           `json:"invoice_id,omitempty"` // proforma de origen
	Items         []SaleItem       `json:"items"`
	PerformedBy   string           `json:"performed_by"`
}

// SaleItem línea de venta.
type SaleItem struct {
	ProductID string           `json:"product_id"`
	Name      string           `json:"name"`
	Quantity  int64            `json:"quantity"`
	Price     decimal.Decimal  `json:"price"`
	CostPrice *decimal.Decimal `json:"cost_price,omitempty"`
}

// Subtotal cantidad por precio de la línea.
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(i.Quantity))
}

// IsCredit indica si la venta genera deuda para un socio.
func (s *Sale) IsCredit() bool {
	return s.PaymentMethod == PaymentCredit && s.PartnerID != ""
}
