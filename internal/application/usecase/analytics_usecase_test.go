package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-repuestos/internal/application/dto"
	"github.com/jhoicas/pos-repuestos/internal/domain"
	"github.com/jhoicas/pos-repuestos/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Rentabilidad
// ──────────────────────────────────────────────────────────────────────────────

func TestReport_ProfitabilityCostoCongeladoYRespaldo(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	supplier := f.partner(t, "Distribuidora", entity.PartnerTypeSupplier)
	a := f.product(t, "A", 0, 0)
	b := f.product(t, "B", 5, 0)
	c := f.product(t, "C", 0, 0)

	receive := func(productID string, qty int64, price string) {
		_, err := f.supplies.Receive(ctx, dto.ReceiveSupplyRequest{
			SupplierID: supplier.ID,
			Items:      []dto.SupplyLineRequest{{ProductID: productID, Quantity: qty, BuyingPrice: dec(price)}},
		}, cashier)
		require.NoError(t, err)
	}
	sell := func(productID string, qty int64, price string) {
		_, err := f.sales.Commit(ctx, dto.CommitSaleRequest{
			PaymentMethod: entity.PaymentCash,
			Items:         []dto.CartLineRequest{{ProductID: productID, Quantity: qty, Price: dec(price)}},
		}, cashier)
		require.NoError(t, err)
	}

	receive(a.ID, 10, "100")
	sell(a.ID, 2, "200") // costo congelado 100
	sell(b.ID, 1, "50")  // sin costo: cero
	sell(c.ID, 1, "100") // sin costo al vender...
	receive(c.ID, 10, "60")

	e, err := f.expenses.Declare(ctx, dto.ExpenseRequest{Category: "FIXED", Type: "Luz", Amount: dec("30")}, cashier)
	require.NoError(t, err)
	_, err = f.expenses.Approve(ctx, e.ID, "gerente")
	require.NoError(t, err)

	r, err := f.reports.Profitability(ctx, dto.ProfitabilityRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, r.SalesCount)
	assert.True(t, dec("550").Equal(r.TotalRevenue), "ingresos %s", r.TotalRevenue)
	assert.True(t, dec("260").Equal(r.TotalCost), "costo %s", r.TotalCost) // ...cae al costo actual 60
	assert.True(t, dec("290").Equal(r.TotalProfit))
	assert.True(t, dec("52.73").Equal(r.MarginPct), "margen %s", r.MarginPct)
	assert.True(t, dec("30").Equal(r.Expenses))
	assert.True(t, dec("260").Equal(r.NetProfit))

	require.Len(t, r.Products, 3)
	assert.Equal(t, a.ID, r.Products[0].ProductID)
	assert.Equal(t, b.ID, r.Products[1].ProductID)
	assert.Equal(t, c.ID, r.Products[2].ProductID)
	assert.True(t, r.Products[0].IsTopPareto)
	assert.False(t, r.Products[1].IsTopPareto)
	assert.True(t, dec("72.73").Equal(r.Products[0].RevenuePct))
	assert.True(t, dec("100").Equal(r.Products[2].CumulativeRevPct))
}

func TestReport_ProfitabilityPeriodoInvalido(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.reports.Profitability(context.Background(), dto.ProfitabilityRequest{StartDate: "2025-03-10", EndDate: "2025-03-01"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.reports.Profitability(context.Background(), dto.ProfitabilityRequest{StartDate: "10/03/2025"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reposición
// ──────────────────────────────────────────────────────────────────────────────

func TestReport_LowStockOrdenadoPorDeficit(t *testing.T) {
	f := newFixture(t, nil)
	y := f.product(t, "Y", 3, 4)
	x := f.product(t, "X", 1, 5)
	f.product(t, "Z", 10, 2)

	list, err := f.reports.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, x.ID, list[0].ProductID)
	assert.Equal(t, int64(7), list[0].SuggestedOrderQty) // ceil(5*1.5) - 1
	assert.Equal(t, 1, list[0].Priority)
	assert.Equal(t, y.ID, list[1].ProductID)
	assert.Equal(t, int64(3), list[1].SuggestedOrderQty)
}

// ──────────────────────────────────────────────────────────────────────────────
// Conciliación
// ──────────────────────────────────────────────────────────────────────────────

func TestReport_ReconcileDetectaDiferencias(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.product(t, "A", 10, 0)
	client := f.partner(t, "Cliente", entity.PartnerTypeClient)

	_, err := f.sales.Commit(ctx, dto.CommitSaleRequest{
		PaymentMethod: entity.PaymentCredit,
		PartnerID:     client.ID,
		Items:         []dto.CartLineRequest{{ProductID: p.ID, Quantity: 4, Price: dec("25")}},
	}, cashier)
	require.NoError(t, err)

	r, err := f.reports.Reconcile(ctx)
	require.NoError(t, err)
	assert.True(t, r.Consistent())
	assert.Equal(t, 1, r.ProductsChecked)
	assert.Equal(t, 1, r.PartnersChecked)

	// escrituras fuera de los motores
	repos := f.store.Repos()
	require.NoError(t, repos.Products.ApplyDelta(ctx, p.ID, 3, nil))
	require.NoError(t, repos.Partners.SetBalance(ctx, client.ID, dec("1")))

	r, err = f.reports.Reconcile(ctx)
	require.NoError(t, err)
	assert.False(t, r.Consistent())
	require.Len(t, r.StockDrifts, 1)
	assert.Equal(t, int64(9), r.StockDrifts[0].Quantity)
	assert.Equal(t, int64(6), r.StockDrifts[0].Expected)
	require.Len(t, r.BalanceDrifts, 1)
	assert.True(t, dec("100").Equal(r.BalanceDrifts[0].Expected))
}
