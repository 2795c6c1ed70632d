package spool_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-repuestos/internal/application/engine"
	"github.com/jhoicas/pos-repuestos/internal/domain"
	"github.com/jhoicas/pos-repuestos/internal/domain/entity"
	"github.com/jhoicas/pos-repuestos/internal/domain/repository"
	"github.com/jhoicas/pos-repuestos/internal/infrastructure/memory"
	"github.com/jhoicas/pos-repuestos/internal/infrastructure/spool"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func openSpool(t *testing.T) *spool.Spool {
	t.Helper()
	s, err := spool.Open(filepath.Join(t.TempDir(), "data", "spool.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedProduct(t *testing.T, store *memory.Store, qty int64) *entity.Product {
	t.Helper()
	cost := decimal.NewFromInt(100)
	p := &entity.Product{
		ID:        uuid.New().String(),
		Name:      "Filtro de aceite",
		SKU:       "FLT-" + uuid.New().String()[:6],
		Price:     decimal.NewFromInt(150),
		CostPrice: &cost,
		Quantity:  qty,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, store.Repos().Products.Create(context.Background(), p))
	return p
}

func saleBatch(productID string, qty int64) *engine.Batch {
	id := uuid.New().String()
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &engine.Batch{
		ID:     id,
		Guard:  engine.AllowNegative,
		Deltas: []engine.QuantityDelta{{ProductID: productID, Delta: -qty}},
		Movements: []entity.StockMovement{{
			ID: uuid.New().String(), Date: now, Type: entity.MovementTypeOUT,
			ProductID: productID, ProductName: "Filtro de aceite", Quantity: qty,
			ReferenceID: id, PerformedBy: "caja-1",
		}},
		Sale: &entity.Sale{
			ID: id, Date: now, CustomerName: entity.DefaultCustomerName,
			Total: decimal.NewFromInt(150 * qty), PaymentMethod: entity.PaymentCash,
			Items: []entity.SaleItem{{ProductID: productID, Name: "Filtro de aceite", Quantity: qty, Price: decimal.NewFromInt(150)}},
		},
		CreatedAt: now,
	}
}

func quantity(t *testing.T, store *memory.Store, id string) int64 {
	t.Helper()
	p, err := store.Repos().Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Quantity
}

// ──────────────────────────────────────────────────────────────────────────────
// Cola
// ──────────────────────────────────────────────────────────────────────────────

func TestSpool_EncolarYLeerEnOrden(t *testing.T) {
	ctx := context.Background()
	s := openSpool(t)

	b1, b2 := saleBatch("p1", 1), saleBatch("p2", 2)
	require.NoError(t, s.Enqueue(ctx, b1))
	require.NoError(t, s.Enqueue(ctx, b2))
	require.NoError(t, s.Enqueue(ctx, b1)) // mismo ID no se duplica

	pending, err := s.Pending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, b1.ID, pending[0].ID)
	assert.Equal(t, b2.ID, pending[1].ID)
	assert.Equal(t, int64(-2), pending[1].Deltas[0].Delta)
	assert.True(t, b2.Sale.Total.Equal(pending[1].Sale.Total))

	first, err := s.Pending(ctx, 1)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, b1.ID, first[0].ID)
}

func TestSpool_EstadosYReencolado(t *testing.T) {
	ctx := context.Background()
	s := openSpool(t)

	b1, b2 := saleBatch("p1", 1), saleBatch("p2", 1)
	require.NoError(t, s.Enqueue(ctx, b1))
	require.NoError(t, s.Enqueue(ctx, b2))
	require.NoError(t, s.MarkApplied(ctx, b1.ID))
	require.NoError(t, s.MarkFailed(ctx, b2.ID, domain.ErrInsufficientStock))

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, spool.Stats{Pending: 0, Applied: 1, Failed: 1}, st)

	failed, err := s.Failed(ctx)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, b2.ID, failed[0].ID)
	assert.Equal(t, domain.ErrInsufficientStock.Error(), failed[0].LastError)

	require.NoError(t, s.Requeue(ctx, b2.ID))
	require.Error(t, s.Requeue(ctx, b1.ID))

	pending, err := s.Pending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, b2.ID, pending[0].ID)
}

func TestSpool_PersisteAlReabrir(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "spool.db")

	s, err := spool.Open(path)
	require.NoError(t, err)
	b := saleBatch("p1", 3)
	require.NoError(t, s.Enqueue(ctx, b))
	require.NoError(t, s.Close())

	s, err = spool.Open(path)
	require.NoError(t, err)
	defer s.Close()
	pending, err := s.Pending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, b.ID, pending[0].ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Aplicador con cola y reproductor
// ──────────────────────────────────────────────────────────────────────────────

func TestQueueingApplier_ConConexionAplicaDirecto(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	s := openSpool(t)
	p := seedProduct(t, store, 10)

	a := spool.NewQueueingApplier(store, s, zerolog.Nop())
	outcome, err := a.Apply(ctx, saleBatch(p.ID, 4))
	require.NoError(t, err)
	assert.Equal(t, engine.Applied, outcome)
	assert.Equal(t, int64(6), quantity(t, store, p.ID))

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, st.Pending)
}

func TestQueueingApplier_ErrorDeNegocioNoSeEncola(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	s := openSpool(t)

	a := spool.NewQueueingApplier(store, s, zerolog.Nop())
	_, err := a.Apply(ctx, saleBatch(uuid.New().String(), 1))
	require.ErrorIs(t, err, domain.ErrNotFound)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, st.Pending)
}

func TestReplayer_SinConexionEncolaYReaplicaAlReconectar(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	s := openSpool(t)
	p := seedProduct(t, store, 10)
	log := zerolog.Nop()

	a := spool.NewQueueingApplier(store, s, log)
	r := spool.NewReplayer(s, store, log)

	store.SetOffline(true)
	b1, b2 := saleBatch(p.ID, 3), saleBatch(p.ID, 4)
	for _, b := range []*engine.Batch{b1, b2} {
		outcome, err := a.Apply(ctx, b)
		require.NoError(t, err)
		assert.Equal(t, engine.Queued, outcome)
	}

	// sigue sin conexión: nada se aplica y la cola queda intacta
	res, err := r.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, spool.DrainResult{Pending: 2}, res)

	store.SetOffline(false)
	res, err = r.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Applied)
	assert.Equal(t, int64(3), quantity(t, store, p.ID))

	// el segundo drenado no reaplica nada
	res, err = r.Drain(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.Applied)
	assert.Equal(t, int64(3), quantity(t, store, p.ID))

	sale, err := store.Repos().Sales.GetByID(ctx, b1.ID)
	require.NoError(t, err)
	require.NotNil(t, sale)
}

func TestReplayer_LoteRechazadoQuedaFallidoYSeContinua(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	s := openSpool(t)
	p := seedProduct(t, store, 2)

	bad := saleBatch(p.ID, 5)
	bad.Guard = engine.ForbidOversell
	good := saleBatch(p.ID, 1)
	require.NoError(t, s.Enqueue(ctx, bad))
	require.NoError(t, s.Enqueue(ctx, good))

	res, err := spool.NewReplayer(s, store, zerolog.Nop()).Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, spool.DrainResult{Applied: 1, Failed: 1}, res)
	assert.Equal(t, int64(1), quantity(t, store, p.ID))

	failed, err := s.Failed(ctx)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, bad.ID, failed[0].ID)
}

func TestReplayer_AfterApplySeInvocaPorLote(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	s := openSpool(t)
	p := seedProduct(t, store, 10)

	b1, b2 := saleBatch(p.ID, 1), saleBatch(p.ID, 1)
	require.NoError(t, s.Enqueue(ctx, b1))
	require.NoError(t, s.Enqueue(ctx, b2))

	var seen []string
	r := spool.NewReplayer(s, store, zerolog.Nop())
	r.AfterApply = func(_ context.Context, b *engine.Batch) error {
		seen = append(seen, b.ID)
		return errors.New("asiento pendiente")
	}
	res, err := r.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Applied)
	assert.Equal(t, []string{b1.ID, b2.ID}, seen)
}

func TestReplayer_VentaACreditoSinConexionSeAsientaAlReaplicar(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	s := openSpool(t)
	p := seedProduct(t, store, 10)
	log := zerolog.Nop()

	client := &entity.Partner{ID: uuid.New().String(), Name: "Taller Ruiz", Type: entity.PartnerTypeClient, CreatedAt: time.Now()}
	require.NoError(t, store.Repos().Partners.Create(ctx, client))

	ledger := engine.NewPartnerLedger(store, log)
	sales := engine.NewSaleEngine(store.Repos(), spool.NewQueueingApplier(store, s, log), ledger, engine.AllowNegative, log)

	store.SetOffline(true)
	res, err := sales.CommitSale(ctx, engine.CommitSaleInput{
		PaymentMethod: entity.PaymentCredit,
		PartnerID:     client.ID,
		Items:         []engine.CartLine{{ProductID: p.ID, Quantity: 2, Price: decimal.NewFromInt(150), Name: "Filtro"}},
		PerformedBy:   "caja-1",
	})
	require.ErrorIs(t, err, domain.ErrPartialCommit)
	require.NotNil(t, res)
	assert.Equal(t, engine.Queued, res.Outcome)

	store.SetOffline(false)
	r := spool.NewReplayer(s, store, log)
	r.AfterApply = func(ctx context.Context, b *engine.Batch) error {
		if b.Sale == nil || !b.Sale.IsCredit() {
			return nil
		}
		_, err := sales.RetryCreditPosting(ctx, b.Sale.ID, "")
		return err
	}
	drained, err := r.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, drained.Applied)

	assert.Equal(t, int64(8), quantity(t, store, p.ID))
	got, err := store.Repos().Partners.GetByID(ctx, client.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(300).Equal(got.Balance), "saldo %s", got.Balance)
}

func TestReplayer_LoteYaAplicadoSeOmiteSinFallar(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	s := openSpool(t)
	p := seedProduct(t, store, 10)
	r := spool.NewReplayer(s, store, zerolog.Nop())

	// La venta llegó al almacenamiento pero la caja no recibió la confirmación y la encoló
	b := saleBatch(p.ID, 3)
	outcome, err := store.Apply(ctx, b)
	require.NoError(t, err)
	require.Equal(t, engine.Applied, outcome)
	require.NoError(t, s.Enqueue(ctx, b))

	res, err := r.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, spool.DrainResult{Applied: 1}, res)
	assert.Equal(t, int64(7), quantity(t, store, p.ID), "el lote repetido no vuelve a descontar")

	failed, err := s.Failed(ctx)
	require.NoError(t, err)
	assert.Empty(t, failed)
	sales, err := store.Repos().Sales.List(ctx, repository.DateRange{})
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}
