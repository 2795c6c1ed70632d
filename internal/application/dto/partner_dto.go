package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePartnerRequest body para POST /api/partners.
type CreatePartnerRequest struct {
	Name           string          `json:"name"`
	Type           string          `json:"type"` // CLIENT | SUPPLIER
	Phone          string          `json:"phone"`
	Email          string          `json:"email"`
	Address        string          `json:"address"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	OpeningBalance decimal.Decimal `json:"opening_balance"` // deuda inicial, positiva
}

// PartnerResponse socio con su saldo.
type PartnerResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Balance     decimal.Decimal `json:"balance"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	Phone       string          `json:"phone,omitempty"`
	Email       string          `json:"email,omitempty"`
	Address     string          `json:"address,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// RecordTransactionRequest body para POST /api/partners/:id/transactions.
// Amount siempre positivo; el signo lo fija el tipo de socio.
type RecordTransactionRequest struct {
	Type        string          `json:"type"` // INVOICE | PAYMENT
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	ReferenceID string          `json:"reference_id"`
}

// TransactionResponse asiento de la cuenta de un socio.
type TransactionResponse struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	PartnerID   string          `json:"partner_id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	ReferenceID string          `json:"reference_id,omitempty"`
	PerformedBy string          `json:"performed_by"`
}

// PartnerStatementResponse socio con sus asientos.
type PartnerStatementResponse struct {
	Partner      PartnerResponse       `json:"partner"`
	Transactions []TransactionResponse `json:"transactions"`
}
