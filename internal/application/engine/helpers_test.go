package engine_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-repuestos/internal/application/engine"
	"github.com/jhoicas/pos-repuestos/internal/domain"
	"github.com/jhoicas/pos-repuestos/internal/domain/entity"
	"github.com/jhoicas/pos-repuestos/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testUser = "caja-1"

type harness struct {
	store     *memory.Store
	ledger    *engine.PartnerLedger
	receiver  *engine.SupplyReceiver
	sales     *engine.SaleEngine
	converter *engine.ProformaConverter
}

func newHarness(t *testing.T, guard engine.StockGuard) *harness {
	t.Helper()
	store := memory.New()
	log := zerolog.Nop()
	l := engine.NewPartnerLedger(store, log)
	return &harness{
		store:     store,
		ledger:    l,
		receiver:  engine.NewSupplyReceiver(store, l, log),
		sales:     engine.NewSaleEngine(store.Repos(), store, l, guard, log),
		converter: engine.NewProformaConverter(store, l, guard, log),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// seedProduct crea un producto con existencia y costo iniciales.
func (h *harness) seedProduct(t *testing.T, name string, qty int64, cost *decimal.Decimal) *entity.Product {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		ID:              uuid.New().String(),
		Name:            name,
		SKU:             "SKU-" + uuid.New().String()[:8],
		Price:           dec("200"),
		CostPrice:       cost,
		Quantity:        qty,
		InitialQuantity: qty,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, h.store.Repos().Products.Create(context.Background(), p))
	return p
}

func (h *harness) seedPartner(t *testing.T, name, partnerType string, creditLimit decimal.Decimal) *entity.Partner {
	t.Helper()
	p := &entity.Partner{
		ID:          uuid.New().String(),
		Name:        name,
		Type:        partnerType,
		CreditLimit: creditLimit,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, h.store.Repos().Partners.Create(context.Background(), p))
	return p
}

func (h *harness) product(t *testing.T, id string) *entity.Product {
	t.Helper()
	p, err := h.store.Repos().Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func (h *harness) partner(t *testing.T, id string) *entity.Partner {
	t.Helper()
	p, err := h.store.Repos().Partners.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

// flakyRunner deja de responder cuando failing está activo.
type flakyRunner struct {
	inner   engine.TransactionalUpdate
	mu      sync.Mutex
	failing bool
}

func (f *flakyRunner) setFailing(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing = v
}

func (f *flakyRunner) Run(ctx context.Context, fn func(ctx context.Context, r engine.Repos) error) error {
	f.mu.Lock()
	failing := f.failing
	f.mu.Unlock()
	if failing {
		return domain.ErrUnavailable
	}
	return f.inner.Run(ctx, fn)
}

// queueingStub registra los lotes y los reporta como encolados.
type queueingStub struct {
	batches []*engine.Batch
}

func (q *queueingStub) Apply(_ context.Context, b *engine.Batch) (engine.Outcome, error) {
	q.batches = append(q.batches, b)
	return engine.Queued, nil
}
