// Package ledger define las variantes de asiento de la cuenta de un socio.
// Cada variante fija el signo que aplica sobre el saldo, de modo que ningún llamador
// tiene que pre-firmar montos.
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-repuestos/internal/domain"
	"github.com/jhoicas/pos-repuestos/internal/domain/entity"
)

// Kind variante de asiento.
type Kind int

const (
	ClientInvoice   Kind = iota + 1 // nueva deuda del cliente: +monto
	ClientPayment                   // pago del cliente: -monto
	SupplierInvoice                 // mercancía recibida a crédito: -monto (le debemos)
	SupplierPayment                 // pago al proveedor: +monto
)

type variant struct {
	partnerType string
	txType      string
	label       string
	sign        func(decimal.Decimal) decimal.Decimal
}

func positive(a decimal.Decimal) decimal.Decimal { return a }
func negative(a decimal.Decimal) decimal.Decimal { return a.Neg() }

var variants = map[Kind]variant{
	ClientInvoice:   {entity.PartnerTypeClient, entity.TransactionTypeInvoice, "Nouvelle Facture / Dette", positive},
	ClientPayment:   {entity.PartnerTypeClient, entity.TransactionTypePayment, "Règlement / Acompte", negative},
	SupplierInvoice: {entity.PartnerTypeSupplier, entity.TransactionTypeInvoice, "Nouvelle Facture / Dette", negative},
	SupplierPayment: {entity.PartnerTypeSupplier, entity.TransactionTypePayment, "Règlement / Acompte", positive},
}

// KindFor resuelve la variante a partir del tipo de socio y del tipo de asiento.
func KindFor(partnerType, txType string) (Kind, error) {
	for k, v := range variants {
		if v.partnerType == partnerType && v.txType == txType {
			return k, nil
		}
	}
	if !entity.IsValidPartnerType(partnerType) {
		return 0, domain.ErrPartnerTypeMismatch
	}
	return 0, domain.ErrInvalidInput
}

// Signed aplica el signo fijo de la variante a un monto positivo.
func (k Kind) Signed(amount decimal.Decimal) decimal.Decimal {
	return variants[k].sign(amount.Abs())
}

// PartnerType tipo de socio al que aplica la variante.
func (k Kind) PartnerType() string { return variants[k].partnerType }

// TransactionType tipo de asiento persistido.
func (k Kind) TransactionType() string { return variants[k].txType }

// DefaultDescription descripción usada cuando el llamador no envía una.
func (k Kind) DefaultDescription() string { return variants[k].label }

// Accepts verifica que la variante corresponda al socio.
func (k Kind) Accepts(p *entity.Partner) error {
	if p.Type != k.PartnerType() {
		return domain.ErrPartnerTypeMismatch
	}
	return nil
}

func (k Kind) String() string {
	switch k {
	case ClientInvoice:
		return "ClientInvoice"
	case ClientPayment:
		return "ClientPayment"
	case SupplierInvoice:
		return "SupplierInvoice"
	case SupplierPayment:
		return "SupplierPayment"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Posting asiento pendiente de aplicar sobre un socio.
type Posting struct {
	Kind   Kind
	Amount decimal.Decimal // magnitud positiva
}

// Delta variación del saldo que produce el asiento.
func (p Posting) Delta() decimal.Decimal {
	return p.Kind.Signed(p.Amount)
}
