package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-repuestos/internal/domain"
	"github.com/jhoicas/pos-repuestos/internal/domain/entity"
	"github.com/jhoicas/pos-repuestos/internal/domain/ledger"
)

// PartnerLedger registra asientos en la cuenta de clientes y proveedores.
// Cada asiento y la actualización del saldo se confirman en la misma transacción.
type PartnerLedger struct {
	txRunner TransactionalUpdate
	log      zerolog.Logger
	now      func() time.Time
}

// NewPartnerLedger construye la cuenta de socios.
func NewPartnerLedger(txRunner TransactionalUpdate, log zerolog.Logger) *PartnerLedger {
	return &PartnerLedger{txRunner: txRunner, log: log, now: time.Now}
}

// RecordTransactionInput entrada para registrar un asiento manual.
type RecordTransactionInput struct {
	PartnerID   string
	Type        string // INVOICE o PAYMENT
	Amount      decimal.Decimal
	Description string
	ReferenceID string
	PerformedBy string
}

// RecordPartnerTransaction registra el asiento y ajusta el saldo con el signo de la variante
// que corresponde al tipo de socio. Con ReferenceID, un segundo registro para el mismo
// socio, tipo y referencia devuelve el asiento existente sin volver a mover el saldo.
func (l *PartnerLedger) RecordPartnerTransaction(ctx context.Context, in RecordTransactionInput) (*entity.Transaction, error) {
	if in.PartnerID == "" || !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if in.Type != entity.TransactionTypeInvoice && in.Type != entity.TransactionTypePayment {
		return nil, domain.ErrInvalidInput
	}

	var out *entity.Transaction
	err := l.txRunner.Run(ctx, func(ctx context.Context, r Repos) error {
		out = nil
		partner, err := r.Partners.GetForUpdate(ctx, in.PartnerID)
		if err != nil {
			return err
		}
		if partner == nil {
			return domain.ErrNotFound
		}
		kind, err := ledger.KindFor(partner.Type, in.Type)
		if err != nil {
			return err
		}
		out, err = l.post(ctx, r, partner, ledger.Posting{Kind: kind, Amount: in.Amount}, enforceLimit, in.Description, in.ReferenceID, in.PerformedBy)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// OpenAccount crea el socio con saldo cero y, si openingDebt es positivo, asienta la deuda
// inicial (a favor de la tienda para clientes, del proveedor para proveedores) en la misma transacción.
func (l *PartnerLedger) OpenAccount(ctx context.Context, partner *entity.Partner, openingDebt decimal.Decimal, performedBy string) (*entity.Transaction, error) {
	if partner == nil || partner.Name == "" || !entity.IsValidPartnerType(partner.Type) {
		return nil, domain.ErrInvalidInput
	}
	if openingDebt.IsNegative() || partner.CreditLimit.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if partner.ID == "" {
		partner.ID = uuid.New().String()
	}
	now := l.now()
	partner.Balance = decimal.Zero
	partner.CreatedAt, partner.UpdatedAt = now, now

	var out *entity.Transaction
	err := l.txRunner.Run(ctx, func(ctx context.Context, r Repos) error {
		out = nil
		p := *partner
		if err := r.Partners.Create(ctx, &p); err != nil {
			return err
		}
		if !openingDebt.IsPositive() {
			return nil
		}
		kind, err := ledger.KindFor(p.Type, entity.TransactionTypeInvoice)
		if err != nil {
			return err
		}
		out, err = l.post(ctx, r, &p, ledger.Posting{Kind: kind, Amount: openingDebt}, enforceLimit, openingBalanceReason, "", performedBy)
		return err
	})
	if err != nil {
		return nil, err
	}
	if out != nil {
		partner.Balance = out.Amount
	}
	l.log.Info().Str("partner_id", partner.ID).Str("type", partner.Type).Msg("cuenta de socio abierta")
	return out, nil
}

// postCreditSale asienta la deuda de una venta a crédito como unidad independiente.
// La referencia es el ID de la venta, por lo que reintentar es idempotente. La venta ya
// salió del inventario: el límite de crédito se validó antes de confirmarla y aquí no se aplica.
func (l *PartnerLedger) postCreditSale(ctx context.Context, sale *entity.Sale) (*entity.Transaction, error) {
	var out *entity.Transaction
	err := l.txRunner.Run(ctx, func(ctx context.Context, r Repos) error {
		out = nil
		partner, err := r.Partners.GetForUpdate(ctx, sale.PartnerID)
		if err != nil {
			return err
		}
		if partner == nil {
			return domain.ErrNotFound
		}
		out, err = l.post(ctx, r, partner,
			ledger.Posting{Kind: ledger.ClientInvoice, Amount: sale.Total}, skipLimit,
			saleReason(sale.ID), sale.ID, sale.PerformedBy)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// limitPolicy indica si post valida el límite de crédito del cliente.
type limitPolicy bool

const (
	enforceLimit limitPolicy = true
	skipLimit    limitPolicy = false
)

// post aplica un asiento sobre un socio ya bloqueado dentro de la unidad de trabajo r.
func (l *PartnerLedger) post(
	ctx context.Context,
	r Repos,
	partner *entity.Partner,
	posting ledger.Posting,
	limit limitPolicy,
	description, referenceID, performedBy string,
) (*entity.Transaction, error) {
	if err := posting.Kind.Accepts(partner); err != nil {
		return nil, err
	}
	if referenceID != "" {
		existing, err := r.Transactions.GetByReference(ctx, partner.ID, posting.Kind.TransactionType(), referenceID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			l.log.Debug().
				Str("partner_id", partner.ID).
				Str("reference_id", referenceID).
				Msg("asiento ya registrado, se omite")
			return existing, nil
		}
	}

	delta := posting.Delta()
	balance := partner.Balance.Add(delta)
	if limit == enforceLimit && exceedsCreditLimit(partner, posting.Kind, balance) {
		return nil, domain.ErrCreditLimitExceeded
	}
	if description == "" {
		description = posting.Kind.DefaultDescription()
	}

	tx := &entity.Transaction{
		ID:          uuid.New().String(),
		Date:        l.now(),
		PartnerID:   partner.ID,
		Type:        posting.Kind.TransactionType(),
		Amount:      delta,
		Description: description,
		ReferenceID: referenceID,
		PerformedBy: performedBy,
	}
	if err := r.Transactions.Create(ctx, tx); err != nil {
		return nil, err
	}
	if err := r.Partners.SetBalance(ctx, partner.ID, balance); err != nil {
		return nil, err
	}
	partner.Balance = balance

	l.log.Info().
		Str("partner_id", partner.ID).
		Stringer("kind", posting.Kind).
		Str("amount", delta.String()).
		Str("balance", balance.String()).
		Msg("asiento registrado")
	return tx, nil
}

// exceedsCreditLimit sólo aplica a nueva deuda de clientes con límite configurado.
func exceedsCreditLimit(p *entity.Partner, kind ledger.Kind, balance decimal.Decimal) bool {
	if kind != ledger.ClientInvoice || !p.CreditLimit.IsPositive() {
		return false
	}
	return balance.GreaterThan(p.CreditLimit)
}
