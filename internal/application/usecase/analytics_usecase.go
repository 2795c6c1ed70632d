package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-repuestos/internal/application/dto"
	"github.com/jhoicas/pos-repuestos/internal/application/engine"
	"github.com/jhoicas/pos-repuestos/internal/domain/entity"
	"github.com/jhoicas/pos-repuestos/internal/domain/repository"
)

const paretoThreshold = 80 // Principio de Pareto: pocos productos generan el 80% de ingresos

var (
	hundred    = decimal.NewFromInt(100)
	pareto80   = decimal.NewFromInt(paretoThreshold)
	idealRatio = decimal.NewFromFloat(1.5)
)

// ReportUseCase reportes de gestión calculados sobre ventas, productos y cuentas:
//   - Rentabilidad por producto con el costo congelado en cada venta.
//   - Productos a reponer.
//   - Conciliación de existencias y saldos contra sus libros.
type ReportUseCase struct {
	reads    engine.Repos
	expenses repository.ExpenseRepository
	now      func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(reads engine.Repos, expenses repository.ExpenseRepository) *ReportUseCase {
	return &ReportUseCase{reads: reads, expenses: expenses, now: time.Now}
}

// Profitability ingresos, costo y utilidad del período. El costo de cada línea es la foto
// tomada en la venta; si falta se usa el costo actual del producto y, si tampoco existe, cero.
func (uc *ReportUseCase) Profitability(ctx context.Context, req dto.ProfitabilityRequest) (*dto.ProfitabilityReportDTO, error) {
	start, end, err := parsePeriod(req.StartDate, req.EndDate, uc.now())
	if err != nil {
		return nil, err
	}
	sales, err := uc.reads.Sales.List(ctx, repository.DateRange{From: &start, To: &end})
	if err != nil {
		return nil, fmt.Errorf("reportes: ventas: %w", err)
	}
	products, err := uc.productIndex(ctx)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[string]*dto.ProductProfitDTO)
	var totalRevenue, totalCost decimal.Decimal
	for _, s := range sales {
		for _, it := range s.Items {
			row, ok := byProduct[it.ProductID]
			if !ok {
				row = &dto.ProductProfitDTO{ProductID: it.ProductID, ProductName: it.Name}
				byProduct[it.ProductID] = row
			}
			qty := decimal.NewFromInt(it.Quantity)
			revenue := it.Subtotal()
			cost := unitCost(it, products[it.ProductID]).Mul(qty)

			row.UnitsSold += it.Quantity
			row.Revenue = row.Revenue.Add(revenue)
			row.Cost = row.Cost.Add(cost)
			totalRevenue = totalRevenue.Add(revenue)
			totalCost = totalCost.Add(cost)
		}
	}

	expenses, err := uc.approvedExpenses(ctx, start, end)
	if err != nil {
		return nil, err
	}
	profit := totalRevenue.Sub(totalCost)
	return &dto.ProfitabilityReportDTO{
		Period: dto.PeriodDTO{
			StartDate: start.Format(dateLayout),
			EndDate:   end.Format(dateLayout),
		},
		SalesCount:   len(sales),
		TotalRevenue: totalRevenue.Round(2),
		TotalCost:    totalCost.Round(2),
		TotalProfit:  profit.Round(2),
		MarginPct:    pct(profit, totalRevenue),
		Expenses:     expenses.Round(2),
		NetProfit:    profit.Sub(expenses).Round(2),
		Products:     buildProductRanking(byProduct, totalRevenue),
	}, nil
}

func unitCost(it entity.SaleItem, current *entity.Product) decimal.Decimal {
	if it.CostPrice != nil {
		return *it.CostPrice
	}
	if current != nil {
		return current.Cost()
	}
	return decimal.Zero
}

func pct(part, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred).Round(2)
}

// buildProductRanking ordena por utilidad descendente y marca el grupo que acumula el 80% de ingresos.
func buildProductRanking(byProduct map[string]*dto.ProductProfitDTO, totalRevenue decimal.Decimal) []dto.ProductProfitDTO {
	rows := make([]dto.ProductProfitDTO, 0, len(byProduct))
	for _, r := range byProduct {
		r.Profit = r.Revenue.Sub(r.Cost)
		rows = append(rows, *r)
	}
	slices.SortFunc(rows, func(a, b dto.ProductProfitDTO) int {
		if c := b.Profit.Cmp(a.Profit); c != 0 {
			return c
		}
		return strings.Compare(a.ProductName, b.ProductName)
	})

	var cumulative decimal.Decimal
	for i := range rows {
		r := &rows[i]
		r.Rank = i + 1
		r.MarginPct = pct(r.Profit, r.Revenue)
		r.RevenuePct = pct(r.Revenue, totalRevenue)
		cumulative = cumulative.Add(r.RevenuePct)
		// se incluye el producto que cruza el umbral
		r.IsTopPareto = cumulative.LessThanOrEqual(pareto80) || i == 0
		r.CumulativeRevPct = cumulative.Round(2)
		r.Revenue = r.Revenue.Round(2)
		r.Cost = r.Cost.Round(2)
		r.Profit = r.Profit.Round(2)
	}
	return rows
}

func (uc *ReportUseCase) approvedExpenses(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	if uc.expenses == nil {
		return total, nil
	}
	list, err := uc.expenses.List(ctx, entity.ExpenseStatusApproved)
	if err != nil {
		return total, fmt.Errorf("reportes: gastos: %w", err)
	}
	for _, e := range list {
		if e.Date.Before(start) || e.Date.After(end) {
			continue
		}
		total = total.Add(e.Amount)
	}
	return total, nil
}

// LowStock productos en o bajo su umbral con la cantidad sugerida para volver a 1.5 veces el umbral.
// Orden: mayor déficit primero.
func (uc *ReportUseCase) LowStock(ctx context.Context) ([]dto.LowStockDTO, error) {
	products, err := uc.reads.Products.List(ctx, repository.Page{})
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockDTO, 0)
	for _, p := range products {
		if !p.IsLowStock() {
			continue
		}
		ideal := decimal.NewFromInt(p.MinStock).Mul(idealRatio).Ceil().IntPart()
		suggested := max(ideal-p.Quantity, 0)
		out = append(out, dto.LowStockDTO{
			ProductID:         p.ID,
			SKU:               p.SKU,
			ProductName:       p.Name,
			CurrentStock:      p.Quantity,
			MinStock:          p.MinStock,
			SuggestedOrderQty: suggested,
			UnitCost:          p.Cost(),
			EstimatedCost:     p.Cost().Mul(decimal.NewFromInt(suggested)).Round(2),
		})
	}
	slices.SortStableFunc(out, func(a, b dto.LowStockDTO) int {
		defA, defB := a.MinStock-a.CurrentStock, b.MinStock-b.CurrentStock
		if defA != defB {
			if defA > defB {
				return -1
			}
			return 1
		}
		return strings.Compare(a.ProductName, b.ProductName)
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}

// Reconcile recalcula cada existencia como inicial + movimientos y cada saldo como suma de
// asientos, y devuelve las diferencias con los valores guardados.
func (uc *ReportUseCase) Reconcile(ctx context.Context) (*dto.ReconcileReportDTO, error) {
	products, err := uc.reads.Products.List(ctx, repository.Page{})
	if err != nil {
		return nil, err
	}
	netStock, err := uc.reads.Movements.NetByProduct(ctx)
	if err != nil {
		return nil, err
	}
	partners, err := uc.reads.Partners.List(ctx, "")
	if err != nil {
		return nil, err
	}
	netBalance, err := uc.reads.Transactions.NetByPartner(ctx)
	if err != nil {
		return nil, err
	}

	report := &dto.ReconcileReportDTO{
		ProductsChecked: len(products),
		PartnersChecked: len(partners),
		StockDrifts:     []dto.StockDriftDTO{},
		BalanceDrifts:   []dto.BalanceDriftDTO{},
	}
	for _, p := range products {
		net := netStock[p.ID]
		if expected := p.InitialQuantity + net; expected != p.Quantity {
			report.StockDrifts = append(report.StockDrifts, dto.StockDriftDTO{
				ProductID:       p.ID,
				ProductName:     p.Name,
				Quantity:        p.Quantity,
				InitialQuantity: p.InitialQuantity,
				NetMovements:    net,
				Expected:        expected,
			})
		}
	}
	for _, p := range partners {
		expected := netBalance[p.ID]
		if !expected.Equal(p.Balance) {
			report.BalanceDrifts = append(report.BalanceDrifts, dto.BalanceDriftDTO{
				PartnerID:   p.ID,
				PartnerName: p.Name,
				Balance:     p.Balance,
				Expected:    expected,
			})
		}
	}
	return report, nil
}

func (uc *ReportUseCase) productIndex(ctx context.Context) (map[string]*entity.Product, error) {
	list, err := uc.reads.Products.List(ctx, repository.Page{})
	if err != nil {
		return nil, fmt.Errorf("reportes: productos: %w", err)
	}
	idx := make(map[string]*entity.Product, len(list))
	for _, p := range list {
		idx[p.ID] = p
	}
	return idx, nil
}
