package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLineRequest línea del carrito. Name se usa si el catálogo no responde.
type CartLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Name      string          `json:"name,omitempty"`
}

// CommitSaleRequest body para POST /api/sales.
type CommitSaleRequest struct {
	CustomerName  string            `json:"customer_name"`
	PaymentMethod string            `json:"payment_method"`
	AmountPaid    *decimal.Decimal  `json:"amount_paid,omitempty"`
	Reference     string            `json:"reference,omitempty"`
	PartnerID     string            `json:"partner_id,omitempty"`
	Items         []CartLineRequest `json:"items"`
}

// SaleItemResponse línea vendida con la foto de precio y costo.
type SaleItemResponse struct {
	ProductID string           `json:"product_id"`
	Name      string           `json:"name"`
	Quantity  int64            `json:"quantity"`
	Price     decimal.Decimal  `json:"price"`
	CostPrice *decimal.Decimal `json:"cost_price,omitempty"`
	Subtotal  decimal.Decimal  `json:"subtotal"`
}

// SaleResponse venta confirmada.
type SaleResponse struct {
	ID            string             `json:"id"`
	Date          time.Time          `json:"date"`
	CustomerName  string             `json:"customer_name"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	AmountPaid    *decimal.Decimal   `json:"amount_paid,omitempty"`
	Change        *decimal.Decimal   `json:"change,omitempty"`
	Reference     string             `json:"reference,omitempty"`
	PartnerID     string             `json:"partner_id,omitempty"`
	InvoiceID     string             `json:"invoice_id,omitempty"`
	Items         []SaleItemResponse `json:"items"`
	PerformedBy   string             `json:"performed_by"`
}

// CommitSaleResponse resultado de POST /api/sales.
// Outcome es APPLIED o QUEUED; LedgerPending indica que la venta a crédito quedó sin asiento.
type CommitSaleResponse struct {
	Sale          SaleResponse         `json:"sale"`
	Outcome       string               `json:"outcome"`
	LedgerEntry   *TransactionResponse `json:"ledger_entry,omitempty"`
	LedgerPending bool                 `json:"ledger_pending"`
}
