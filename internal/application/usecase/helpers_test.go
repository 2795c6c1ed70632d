package usecase_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-repuestos/internal/application/dto"
	"github.com/jhoicas/pos-repuestos/internal/application/engine"
	"github.com/jhoicas/pos-repuestos/internal/application/usecase"
	"github.com/jhoicas/pos-repuestos/internal/domain"
	"github.com/jhoicas/pos-repuestos/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const cashier = "caja-1"

type fixture struct {
	store    *memory.Store
	products *usecase.ProductUseCase
	sales    *usecase.SaleUseCase
	supplies *usecase.SupplyUseCase
	partners *usecase.PartnerUseCase
	invoices *usecase.InvoiceUseCase
	expenses *usecase.ExpenseUseCase
	reports  *usecase.ReportUseCase
}

// newFixture arma los casos de uso sobre el almacenamiento en memoria. ledgerRunner permite
// sustituir la unidad de trabajo de la cuenta de socios; nil usa el propio store.
func newFixture(t *testing.T, ledgerRunner engine.TransactionalUpdate) *fixture {
	t.Helper()
	store := memory.New()
	log := zerolog.Nop()
	reads := store.Repos()
	if ledgerRunner == nil {
		ledgerRunner = store
	}
	ledger := engine.NewPartnerLedger(ledgerRunner, log)
	return &fixture{
		store:    store,
		products: usecase.NewProductUseCase(reads.Products, reads.Movements),
		sales:    usecase.NewSaleUseCase(engine.NewSaleEngine(reads, store, ledger, engine.AllowNegative, log), reads.Sales),
		supplies: usecase.NewSupplyUseCase(engine.NewSupplyReceiver(store, ledger, log), reads.Supplies),
		partners: usecase.NewPartnerUseCase(ledger, reads.Partners, reads.Transactions),
		invoices: usecase.NewInvoiceUseCase(store, reads, engine.NewProformaConverter(store, ledger, engine.AllowNegative, log), 15, log),
		expenses: usecase.NewExpenseUseCase(store.Expenses()),
		reports:  usecase.NewReportUseCase(reads, store.Expenses()),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (f *fixture) product(t *testing.T, sku string, qty, minStock int64) *dto.ProductResponse {
	t.Helper()
	p, err := f.products.Create(context.Background(), dto.CreateProductRequest{
		SKU: sku, Name: "Producto " + sku, Price: dec("200"), InitialQuantity: qty, MinStock: minStock,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) partner(t *testing.T, name, partnerType string) *dto.PartnerResponse {
	t.Helper()
	p, err := f.partners.Create(context.Background(), dto.CreatePartnerRequest{Name: name, Type: partnerType}, cashier)
	require.NoError(t, err)
	return p
}

// downRunner unidad de trabajo que nunca responde.
type downRunner struct{}

func (downRunner) Run(context.Context, func(context.Context, engine.Repos) error) error {
	return domain.ErrUnavailable
}
