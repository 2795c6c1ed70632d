package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-repuestos/internal/domain"
	"github.com/jhoicas/pos-repuestos/internal/domain/entity"
	"github.com/jhoicas/pos-repuestos/internal/domain/inventory"
	"github.com/jhoicas/pos-repuestos/internal/domain/ledger"
)

// SupplyReceiver aplica entregas de proveedores sobre existencia y costo promedio.
type SupplyReceiver struct {
	txRunner TransactionalUpdate
	ledger   *PartnerLedger
	log      zerolog.Logger
	now      func() time.Time
}

// NewSupplyReceiver construye el receptor de aprovisionamientos.
func NewSupplyReceiver(txRunner TransactionalUpdate, partnerLedger *PartnerLedger, log zerolog.Logger) *SupplyReceiver {
	return &SupplyReceiver{txRunner: txRunner, ledger: partnerLedger, log: log, now: time.Now}
}

// SupplyLine línea recibida.
type SupplyLine struct {
	ProductID   string
	Quantity    int64
	BuyingPrice decimal.Decimal
}

// ReceiveSupplyInput entrada de ReceiveSupply.
type ReceiveSupplyInput struct {
	SupplierID  string
	Items       []SupplyLine
	OnCredit    bool
	PerformedBy string
}

// ReceiveSupply, dentro de una sola transacción y por cada línea: bloquea el producto, recalcula
// el costo promedio ponderado, suma la cantidad y registra el movimiento IN. Luego guarda el
// aprovisionamiento y, si es a crédito, el asiento en la cuenta del proveedor.
// Líneas repetidas del mismo producto se aplican en orden, cada una sobre el resultado de la anterior.
func (s *SupplyReceiver) ReceiveSupply(ctx context.Context, in ReceiveSupplyInput) (*entity.Supply, error) {
	if in.SupplierID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range in.Items {
		if line.ProductID == "" || line.Quantity <= 0 || line.BuyingPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}

	supplyID := uuid.New().String()
	reason := supplyReason(supplyID)

	var supply *entity.Supply
	err := s.txRunner.Run(ctx, func(ctx context.Context, r Repos) error {
		supply = nil
		now := s.now()

		supplier, err := r.Partners.GetForUpdate(ctx, in.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return domain.ErrNotFound
		}
		if supplier.Type != entity.PartnerTypeSupplier {
			return domain.ErrPartnerTypeMismatch
		}

		items := make([]entity.SupplyItem, 0, len(in.Items))
		total := decimal.Zero
		for _, line := range in.Items {
			// Bloquea la fila del producto para que el costo se calcule sobre el valor vigente
			product, err := r.Products.GetForUpdate(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			newCost := inventory.CostCalculator(product.Quantity, product.Cost(), line.Quantity, line.BuyingPrice)
			if err := r.Products.ApplyDelta(ctx, product.ID, line.Quantity, &newCost); err != nil {
				return err
			}
			mov := &entity.StockMovement{
				ID:          uuid.New().String(),
				Date:        now,
				Type:        entity.MovementTypeIN,
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				Reason:      reason,
				ReferenceID: supplyID,
				PerformedBy: in.PerformedBy,
			}
			if err := r.Movements.Create(ctx, mov); err != nil {
				return err
			}
			items = append(items, entity.SupplyItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				BuyingPrice: line.BuyingPrice,
			})
			total = total.Add(line.BuyingPrice.Mul(decimal.NewFromInt(line.Quantity)))
		}

		sp := &entity.Supply{
			ID:           supplyID,
			Date:         now,
			SupplierID:   supplier.ID,
			SupplierName: supplier.Name,
			TotalCost:    total,
			Status:       entity.SupplyStatusCompleted,
			OnCredit:     in.OnCredit,
			Items:        items,
			PerformedBy:  in.PerformedBy,
		}
		if err := r.Supplies.Create(ctx, sp); err != nil {
			return err
		}
		if in.OnCredit && total.IsPositive() {
			posting := ledger.Posting{Kind: ledger.SupplierInvoice, Amount: total}
			if _, err := s.ledger.post(ctx, r, supplier, posting, enforceLimit, reason, supplyID, in.PerformedBy); err != nil {
				return err
			}
		}
		supply = sp
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("supply_id", supply.ID).
		Str("supplier_id", supply.SupplierID).
		Int("lines", len(supply.Items)).
		Str("total_cost", supply.TotalCost.String()).
		Bool("on_credit", supply.OnCredit).
		Msg("aprovisionamiento recibido")
	return supply, nil
}
