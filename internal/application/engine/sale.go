package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-repuestos/internal/domain"
	"github.com/jhoicas/pos-repuestos/internal/domain/entity"
)

// SaleEngine confirma ventas de caja como un lote conmutativo. No lee la existencia antes de
// descontar: dos cajas vendiendo el mismo producto a la vez no entran en conflicto.
type SaleEngine struct {
	reads   Repos // lecturas fuera de la unidad de trabajo (foto de nombre y costo)
	applier CommutativeDelta
	ledger  *PartnerLedger
	guard   StockGuard
	log     zerolog.Logger
	now     func() time.Time
}

// NewSaleEngine construye el motor de ventas.
func NewSaleEngine(reads Repos, applier CommutativeDelta, partnerLedger *PartnerLedger, guard StockGuard, log zerolog.Logger) *SaleEngine {
	return &SaleEngine{
		reads:   reads,
		applier: applier,
		ledger:  partnerLedger,
		guard:   guard,
		log:     log,
		now:     time.Now,
	}
}

// CartLine línea del carrito. Name se usa sólo si el catálogo no es legible.
type CartLine struct {
	ProductID string
	Quantity  int64
	Price     decimal.Decimal
	Name      string
}

// CommitSaleInput entrada de CommitSale.
type CommitSaleInput struct {
	CustomerName  string
	PaymentMethod string
	AmountPaid    *decimal.Decimal
	Reference     string
	PartnerID     string
	Items         []CartLine
	PerformedBy   string
}

// SaleResult venta confirmada (o encolada) y, para ventas a crédito, el asiento del cliente.
type SaleResult struct {
	Sale        *entity.Sale
	Outcome     Outcome
	LedgerEntry *entity.Transaction
}

// CommitSale descuenta la existencia, registra un movimiento OUT por línea y guarda la venta con
// la foto de precio y costo, todo en un lote atómico. Si la venta es a crédito con cliente, el
// asiento se registra después como unidad independiente: si falla se devuelve el resultado junto
// con *PartialCommitError y la venta no se revierte.
func (e *SaleEngine) CommitSale(ctx context.Context, in CommitSaleInput) (*SaleResult, error) {
	if len(in.Items) == 0 || !entity.IsValidPaymentMethod(in.PaymentMethod) {
		return nil, domain.ErrInvalidInput
	}
	if in.AmountPaid != nil && in.AmountPaid.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range in.Items {
		if line.ProductID == "" || line.Quantity <= 0 || line.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}

	items, err := e.snapshot(ctx, in.Items)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}

	sale := &entity.Sale{
		ID:            uuid.New().String(),
		Date:          e.now(),
		CustomerName:  in.CustomerName,
		Total:         total,
		PaymentMethod: in.PaymentMethod,
		AmountPaid:    in.AmountPaid,
		Reference:     in.Reference,
		Items:         items,
		PerformedBy:   in.PerformedBy,
	}
	if sale.CustomerName == "" {
		sale.CustomerName = entity.DefaultCustomerName
	}
	if in.PaymentMethod == entity.PaymentCredit && in.PartnerID != "" {
		if err := e.checkCreditClient(ctx, in.PartnerID, total); err != nil {
			return nil, err
		}
		sale.PartnerID = in.PartnerID
	}

	outcome, err := e.applier.Apply(ctx, e.buildBatch(sale))
	if err != nil {
		return nil, err
	}
	e.log.Info().
		Str("sale_id", sale.ID).
		Str("total", sale.Total.String()).
		Str("payment_method", sale.PaymentMethod).
		Stringer("outcome", outcome).
		Msg("venta confirmada")

	res := &SaleResult{Sale: sale, Outcome: outcome}
	if !sale.IsCredit() {
		return res, nil
	}
	entry, err := e.ledger.postCreditSale(ctx, sale)
	if err != nil {
		e.log.Warn().Err(err).
			Str("sale_id", sale.ID).
			Str("partner_id", sale.PartnerID).
			Msg("venta sin asiento en la cuenta del cliente, pendiente de reintento")
		return res, &PartialCommitError{SaleID: sale.ID, Err: err}
	}
	res.LedgerEntry = entry
	return res, nil
}

// RetryCreditPosting reintenta el asiento de una venta a crédito ya confirmada.
// Si el asiento ya existe lo devuelve sin volver a mover el saldo.
func (e *SaleEngine) RetryCreditPosting(ctx context.Context, saleID, performedBy string) (*entity.Transaction, error) {
	sale, err := e.reads.Sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if !sale.IsCredit() {
		return nil, domain.ErrInvalidState
	}
	if performedBy != "" {
		s := *sale
		s.PerformedBy = performedBy
		sale = &s
	}
	return e.ledger.postCreditSale(ctx, sale)
}

// snapshot arma las líneas con nombre y costo vigentes. Sin conexión usa el nombre enviado
// por la caja y deja el costo vacío; los reportes caen al costo actual del producto.
func (e *SaleEngine) snapshot(ctx context.Context, lines []CartLine) ([]entity.SaleItem, error) {
	items := make([]entity.SaleItem, 0, len(lines))
	offline := false
	for _, line := range lines {
		item := entity.SaleItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			Price:     line.Price,
		}
		if !offline {
			p, err := e.reads.Products.GetByID(ctx, line.ProductID)
			switch {
			case errors.Is(err, domain.ErrUnavailable):
				offline = true
			case err != nil:
				return nil, err
			case p == nil:
				return nil, domain.ErrNotFound
			default:
				item.Name = p.Name
				if p.CostPrice != nil {
					c := *p.CostPrice
					item.CostPrice = &c
				}
			}
		}
		items = append(items, item)
	}
	if offline {
		e.log.Warn().Int("lines", len(lines)).Msg("catálogo no disponible, venta sin foto de costo")
	}
	return items, nil
}

// checkCreditClient valida el cliente antes de confirmar para no dejar ventas sin asiento por
// errores de entrada. Sin conexión la validación se omite.
func (e *SaleEngine) checkCreditClient(ctx context.Context, partnerID string, total decimal.Decimal) error {
	p, err := e.reads.Partners.GetByID(ctx, partnerID)
	if errors.Is(err, domain.ErrUnavailable) {
		return nil
	}
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	if p.Type != entity.PartnerTypeClient {
		return domain.ErrPartnerTypeMismatch
	}
	if p.CreditLimit.IsPositive() && p.Balance.Add(total).GreaterThan(p.CreditLimit) {
		return domain.ErrCreditLimitExceeded
	}
	return nil
}

func (e *SaleEngine) buildBatch(sale *entity.Sale) *Batch {
	reason := saleReason(sale.ID)
	b := &Batch{
		ID:        sale.ID,
		Guard:     e.guard,
		Deltas:    make([]QuantityDelta, 0, len(sale.Items)),
		Movements: make([]entity.StockMovement, 0, len(sale.Items)),
		Sale:      sale,
		CreatedAt: sale.Date,
	}
	for _, it := range sale.Items {
		b.Deltas = append(b.Deltas, QuantityDelta{ProductID: it.ProductID, Delta: -it.Quantity})
		b.Movements = append(b.Movements, entity.StockMovement{
			ID:          uuid.New().String(),
			Date:        sale.Date,
			Type:        entity.MovementTypeOUT,
			ProductID:   it.ProductID,
			ProductName: it.Name,
			Quantity:    it.Quantity,
			Reason:      reason,
			ReferenceID: sale.ID,
			PerformedBy: sale.PerformedBy,
		})
	}
	return b
}
