package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItemRequest línea del documento.
type InvoiceItemRequest struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// CreateInvoiceRequest body para POST /api/invoices.
type CreateInvoiceRequest struct {
	Type       string               `json:"type"` // PROFORMA | INVOICE
	ClientName string               `json:"client_name"`
	Items      []InvoiceItemRequest `json:"items"`
}

// ConvertInvoiceRequest body para POST /api/invoices/:id/convert.
type ConvertInvoiceRequest struct {
	PaymentMethod string           `json:"payment_method"`
	AmountPaid    *decimal.Decimal `json:"amount_paid,omitempty"`
	PartnerID     string           `json:"partner_id,omitempty"`
}

// InvoiceItemResponse línea del documento.
type InvoiceItemResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// InvoiceResponse proforma o factura.
type InvoiceResponse struct {
	ID         string                `json:"id"`
	Type       string                `json:"type"`
	Number     string                `json:"number"`
	Date       time.Time             `json:"date"`
	ValidUntil *time.Time            `json:"valid_until,omitempty"`
	Expired    bool                  `json:"expired"`
	ClientName string                `json:"client_name"`
	Items      []InvoiceItemResponse `json:"items"`
	Total      decimal.Decimal       `json:"total"`
	Status     string                `json:"status"`
	SaleID     string                `json:"sale_id,omitempty"`
	CreatedBy  string                `json:"created_by"`
}

// ExpenseRequest body para POST /api/expenses.
type ExpenseRequest struct {
	Category    string          `json:"category"` // FIXED | VARIABLE
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// ExpenseResponse gasto declarado.
type ExpenseResponse struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Category    string          `json:"category"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	PerformedBy string          `json:"performed_by"`
	ReviewedBy  string          `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time      `json:"reviewed_at,omitempty"`
}
