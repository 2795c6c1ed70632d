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

// ProformaConverter convierte una proforma en venta. El cambio de estado del documento y los
// efectos de la venta se confirman en una sola transacción: una proforma nunca genera dos ventas.
type ProformaConverter struct {
	txRunner TransactionalUpdate
	ledger   *PartnerLedger
	guard    StockGuard
	log      zerolog.Logger
	now      func() time.Time
}

// NewProformaConverter construye el conversor.
func NewProformaConverter(txRunner TransactionalUpdate, partnerLedger *PartnerLedger, guard StockGuard, log zerolog.Logger) *ProformaConverter {
	return &ProformaConverter{txRunner: txRunner, ledger: partnerLedger, guard: guard, log: log, now: time.Now}
}

// ConvertInput datos de cobro de la venta resultante.
// Con PaymentMethod CREDIT y PartnerID, la deuda se asienta en la misma transacción.
type ConvertInput struct {
	PaymentMethod string
	AmountPaid    *decimal.Decimal
	PartnerID     string
	PerformedBy   string
}

// ConvertProformaToSale bloquea la proforma, exige tipo PROFORMA en DRAFT, descuenta existencia,
// registra movimientos, guarda la venta y deja el documento en CONVERTED_TO_SALE con su saleId.
func (c *ProformaConverter) ConvertProformaToSale(ctx context.Context, invoiceID string, in ConvertInput) (*entity.Sale, error) {
	if invoiceID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = entity.PaymentCash
	}
	if !entity.IsValidPaymentMethod(in.PaymentMethod) {
		return nil, domain.ErrInvalidInput
	}
	if in.AmountPaid != nil && in.AmountPaid.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	var sale *entity.Sale
	err := c.txRunner.Run(ctx, func(ctx context.Context, r Repos) error {
		sale = nil
		now := c.now()

		inv, err := r.Invoices.GetForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if err := checkConvertible(inv); err != nil {
			return err
		}
		if inv.IsExpired(now) {
			c.log.Warn().
				Str("invoice_id", inv.ID).
				Time("valid_until", *inv.ValidUntil).
				Msg("proforma vencida convertida en venta")
		}

		s := &entity.Sale{
			ID:            uuid.New().String(),
			Date:          now,
			CustomerName:  inv.ClientName,
			PaymentMethod: in.PaymentMethod,
			AmountPaid:    in.AmountPaid,
			Reference:     inv.Number,
			InvoiceID:     inv.ID,
			PerformedBy:   in.PerformedBy,
			Items:         make([]entity.SaleItem, 0, len(inv.Items)),
		}
		if s.CustomerName == "" {
			s.CustomerName = entity.DefaultCustomerName
		}
		reason := saleReason(s.ID)
		total := decimal.Zero
		for _, line := range inv.Items {
			product, err := r.Products.GetForUpdate(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			if c.guard == ForbidOversell && product.Quantity < line.Quantity {
				return domain.ErrInsufficientStock
			}
			if err := r.Products.ApplyDelta(ctx, product.ID, -line.Quantity, nil); err != nil {
				return err
			}
			if err := r.Movements.Create(ctx, &entity.StockMovement{
				ID:          uuid.New().String(),
				Date:        now,
				Type:        entity.MovementTypeOUT,
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				Reason:      reason,
				ReferenceID: s.ID,
				PerformedBy: in.PerformedBy,
			}); err != nil {
				return err
			}
			item := entity.SaleItem{
				ProductID: product.ID,
				Name:      line.Name,
				Quantity:  line.Quantity,
				Price:     line.Price,
			}
			if item.Name == "" {
				item.Name = product.Name
			}
			if product.CostPrice != nil {
				cost := *product.CostPrice
				item.CostPrice = &cost
			}
			s.Items = append(s.Items, item)
			total = total.Add(item.Subtotal())
		}
		s.Total = total

		if in.PaymentMethod == entity.PaymentCredit && in.PartnerID != "" {
			partner, err := r.Partners.GetForUpdate(ctx, in.PartnerID)
			if err != nil {
				return err
			}
			if partner == nil {
				return domain.ErrNotFound
			}
			s.PartnerID = partner.ID
			posting := ledger.Posting{Kind: ledger.ClientInvoice, Amount: total}
			if _, err := c.ledger.post(ctx, r, partner, posting, enforceLimit, reason, s.ID, in.PerformedBy); err != nil {
				return err
			}
		}

		if err := r.Sales.Create(ctx, s); err != nil {
			return err
		}
		if err := r.Invoices.UpdateStatus(ctx, inv.ID, entity.InvoiceStatusConverted, s.ID); err != nil {
			return err
		}
		sale = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.log.Info().
		Str("invoice_id", invoiceID).
		Str("sale_id", sale.ID).
		Str("total", sale.Total.String()).
		Msg("proforma convertida en venta")
	return sale, nil
}

func checkConvertible(inv *entity.Invoice) error {
	if inv.Type != entity.InvoiceTypeProforma {
		return domain.ErrInvalidState
	}
	switch inv.Status {
	case entity.InvoiceStatusDraft:
		return nil
	case entity.InvoiceStatusConverted:
		return domain.ErrAlreadyConverted
	}
	return domain.ErrInvalidState
}
