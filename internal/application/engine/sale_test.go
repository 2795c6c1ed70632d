package engine_test

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-repuestos/internal/application/engine"
	"github.com/jhoicas/pos-repuestos/internal/domain"
	"github.com/jhoicas/pos-repuestos/internal/domain/entity"
	"github.com/jhoicas/pos-repuestos/internal/domain/repository"
)

func TestCommitSale_DescuentaExistenciaYGuardaFotoDeCosto(t *testing.T) {
	h := newHarness(t, engine.AllowNegative)
	ctx := context.Background()
	p := h.seedProduct(t, "Filtre à air", 15, decPtr("110"))

	res, err := h.sales.CommitSale(ctx, engine.CommitSaleInput{
		PaymentMethod: entity.PaymentCash,
		Items:         []engine.CartLine{{ProductID: p.ID, Quantity: 3, Price: dec("200")}},
		PerformedBy:   testUser,
	})
	require.NoError(t, err)
	assert.Equal(t, engine.Applied, res.Outcome)
	assert.Nil(t, res.LedgerEntry)

	sale := res.Sale
	assert.True(t, sale.Total.Equal(dec("600")))
	assert.Equal(t, entity.DefaultCustomerName, sale.CustomerName)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, "Filtre à air", sale.Items[0].Name)
	require.NotNil(t, sale.Items[0].CostPrice)
	assert.True(t, sale.Items[0].CostPrice.Equal(dec("110")))

	got := h.product(t, p.ID)
	assert.Equal(t, int64(12), got.Quantity)
	assert.True(t, got.CostPrice.Equal(dec("110")), "una venta no modifica el costo promedio")

	movs, err := h.store.Repos().Movements.List(ctx, repository.MovementFilter{ProductID: p.ID, Type: entity.MovementTypeOUT})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, int64(3), movs[0].Quantity)
	assert.Equal(t, sale.ID, movs[0].ReferenceID)
	assert.True(t, strings.HasPrefix(movs[0].Reason, "Vente #"))

	stored, err := h.store.Repos().Sales.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Total.Equal(dec("600")))
}

func TestCommitSale_PermiteExistenciaNegativa(t *testing.T) {
	h := newHarness(t, engine.AllowNegative)
	p := h.seedProduct(t, "Joint", 1, nil)

	_, err := h.sales.CommitSale(context.Background(), engine.CommitSaleInput{
		PaymentMethod: entity.PaymentCash,
		Items:         []engine.CartLine{{ProductID: p.ID, Quantity: 3, Price: dec("5")}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-2), h.product(t, p.ID).Quantity)
}

func TestCommitSale_ProhibeSobreventaConGuarda(t *testing.T) {
	h := newHarness(t, engine.ForbidOversell)
	ctx := context.Background()
	a := h.seedProduct(t, "A", 5, nil)
	b := h.seedProduct(t, "B", 1, nil)

	_, err := h.sales.CommitSale(ctx, engine.CommitSaleInput{
		PaymentMethod: entity.PaymentCash,
		Items: []engine.CartLine{
			{ProductID: a.ID, Quantity: 2, Price: dec("1")},
			{ProductID: b.ID, Quantity: 2, Price: dec("1")},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Todo o nada: la línea válida tampoco se aplicó
	assert.Equal(t, int64(5), h.product(t, a.ID).Quantity)
	assert.Equal(t, int64(1), h.product(t, b.ID).Quantity)
	sales, err := h.store.Repos().Sales.List(ctx, repository.DateRange{})
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestCommitSale_ProductoInexistente(t *testing.T) {
	h := newHarness(t, engine.AllowNegative)
	p := h.seedProduct(t, "A", 5, nil)

	_, err := h.sales.CommitSale(context.Background(), engine.CommitSaleInput{
		PaymentMethod: entity.PaymentCash,
		Items: []engine.CartLine{
			{ProductID: p.ID, Quantity: 1, Price: dec("1")},
			{ProductID: "no-existe", Quantity: 1, Price: dec("1")},
		},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(5), h.product(t, p.ID).Quantity)
}

func TestCommitSale_Validaciones(t *testing.T) {
	h := newHarness(t, engine.AllowNegative)
	p := h.seedProduct(t, "A", 5, nil)
	line := engine.CartLine{ProductID: p.ID, Quantity: 1, Price: dec("1")}

	cases := []struct {
		name string
		in   engine.CommitSaleInput
	}{
		{"carrito vacío", engine.CommitSaleInput{PaymentMethod: entity.PaymentCash}},
		{"medio de pago inválido", engine.CommitSaleInput{PaymentMethod: "BITCOIN", Items: []engine.CartLine{line}}},
		{"cantidad negativa", engine.CommitSaleInput{PaymentMethod: entity.PaymentCash, Items: []engine.CartLine{{ProductID: p.ID, Quantity: -1, Price: dec("1")}}}},
		{"precio negativo", engine.CommitSaleInput{PaymentMethod: entity.PaymentCash, Items: []engine.CartLine{{ProductID: p.ID, Quantity: 1, Price: dec("-1")}}}},
		{"pago negativo", engine.CommitSaleInput{PaymentMethod: entity.PaymentCash, AmountPaid: decPtr("-5"), Items: []engine.CartLine{line}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.sales.CommitSale(context.Background(), tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, int64(5), h.product(t, p.ID).Quantity)
}

func TestCommitSale_ACreditoAsientaDeudaDelCliente(t *testing.T) {
	h := newHarness(t, engine.AllowNegative)
	ctx := context.Background()
	client := h.seedPartner(t, "Garage Mbarga", entity.PartnerTypeClient, dec("0"))
	p := h.seedProduct(t, "Batterie", 4, decPtr("30000"))

	res, err := h.sales.CommitSale(ctx, engine.CommitSaleInput{
		CustomerName:  "Garage Mbarga",
		PaymentMethod: entity.PaymentCredit,
		PartnerID:     client.ID,
		Items:         []engine.CartLine{{ProductID: p.ID, Quantity: 1, Price: dec("45000")}},
		PerformedBy:   testUser,
	})
	require.NoError(t, err)
	require.NotNil(t, res.LedgerEntry)
	assert.True(t, res.LedgerEntry.Amount.Equal(dec("45000")))
	assert.Equal(t, res.Sale.ID, res.LedgerEntry.ReferenceID)
	assert.True(t, h.partner(t, client.ID).Balance.Equal(dec("45000")))
}

func TestCommitSale_CreditoSinClienteNoAsienta(t *testing.T) {
	h := newHarness(t, engine.AllowNegative)
	p := h.seedProduct(t, "Ampoule", 4, nil)

	res, err := h.sales.CommitSale(context.Background(), engine.CommitSaleInput{
		PaymentMethod: entity.PaymentCredit,
		Items:         []engine.CartLine{{ProductID: p.ID, Quantity: 1, Price: dec("500")}},
	})
	require.NoError(t, err)
	assert.Nil(t, res.LedgerEntry)
	assert.Equal(t, int64(3), h.product(t, p.ID).Quantity)
}

func TestCommitSale_CreditoRechazadoAntesDeConfirmar(t *testing.T) {
	h := newHarness(t, engine.AllowNegative)
	supplier := h.seedPartner(t, "Proveedor", entity.PartnerTypeSupplier, dec("0"))
	limited := h.seedPartner(t, "Cliente", entity.PartnerTypeClient, dec("1000"))
	p := h.seedProduct(t, "Ampoule", 4, nil)

	_, err := h.sales.CommitSale(context.Background(), engine.CommitSaleInput{
		PaymentMethod: entity.PaymentCredit,
		PartnerID:     supplier.ID,
		Items:         []engine.CartLine{{ProductID: p.ID, Quantity: 1, Price: dec("500")}},
	})
	assert.ErrorIs(t, err, domain.ErrPartnerTypeMismatch)

	_, err = h.sales.CommitSale(context.Background(), engine.CommitSaleInput{
		PaymentMethod: entity.PaymentCredit,
		PartnerID:     limited.ID,
		Items:         []engine.CartLine{{ProductID: p.ID, Quantity: 3, Price: dec("500")}},
	})
	assert.ErrorIs(t, err, domain.ErrCreditLimitExceeded)

	assert.Equal(t, int64(4), h.product(t, p.ID).Quantity)
}

func TestCommitSale_AsientoFallidoDevuelveCommitParcial(t *testing.T) {
	h := newHarness(t, engine.AllowNegative)
	ctx := context.Background()
	runner := &flakyRunner{inner: h.store}
	l := engine.NewPartnerLedger(runner, zerolog.Nop())
	sales := engine.NewSaleEngine(h.store.Repos(), h.store, l, engine.AllowNegative, zerolog.Nop())

	client := h.seedPartner(t, "Cliente", entity.PartnerTypeClient, dec("0"))
	p := h.seedProduct(t, "Radiateur", 2, decPtr("100"))

	runner.setFailing(true)
	res, err := sales.CommitSale(ctx, engine.CommitSaleInput{
		PaymentMethod: entity.PaymentCredit,
		PartnerID:     client.ID,
		Items:         []engine.CartLine{{ProductID: p.ID, Quantity: 1, Price: dec("300")}},
		PerformedBy:   testUser,
	})
	require.ErrorIs(t, err, domain.ErrPartialCommit)
	var partial *engine.PartialCommitError
	require.ErrorAs(t, err, &partial)
	require.NotNil(t, res, "la venta confirmada se devuelve aunque falle el asiento")
	assert.Equal(t, res.Sale.ID, partial.SaleID)
	assert.ErrorIs(t, err, domain.ErrUnavailable)

	// La venta quedó confirmada; el saldo no se movió
	assert.Equal(t, int64(1), h.product(t, p.ID).Quantity)
	assert.True(t, h.partner(t, client.ID).Balance.IsZero())

	// Reintento idempotente
	runner.setFailing(false)
	first, err := sales.RetryCreditPosting(ctx, res.Sale.ID, testUser)
	require.NoError(t, err)
	second, err := sales.RetryCreditPosting(ctx, res.Sale.ID, testUser)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, h.partner(t, client.ID).Balance.Equal(dec("300")))

	txs, err := h.store.Repos().Transactions.ListByPartner(ctx, client.ID)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestRetryCreditPosting_NoAplicaLimiteAVentaConfirmada(t *testing.T) {
	h := newHarness(t, engine.AllowNegative)
	ctx := context.Background()
	runner := &flakyRunner{inner: h.store}
	l := engine.NewPartnerLedger(runner, zerolog.Nop())
	sales := engine.NewSaleEngine(h.store.Repos(), h.store, l, engine.AllowNegative, zerolog.Nop())

	client := h.seedPartner(t, "Cliente", entity.PartnerTypeClient, dec("400"))
	p := h.seedProduct(t, "Alternateur", 5, decPtr("150"))

	runner.setFailing(true)
	res, err := sales.CommitSale(ctx, engine.CommitSaleInput{
		PaymentMethod: entity.PaymentCredit,
		PartnerID:     client.ID,
		Items:         []engine.CartLine{{ProductID: p.ID, Quantity: 1, Price: dec("300")}},
		PerformedBy:   testUser,
	})
	require.ErrorIs(t, err, domain.ErrPartialCommit)
	require.NotNil(t, res)
	runner.setFailing(false)

	// Deuda manual posterior que deja poco margen
	_, err = l.RecordPartnerTransaction(ctx, engine.RecordTransactionInput{
		PartnerID: client.ID, Type: entity.TransactionTypeInvoice, Amount: dec("200"), PerformedBy: testUser,
	})
	require.NoError(t, err)

	// La venta ya salió del inventario: su deuda se asienta aunque supere el límite
	entry, err := sales.RetryCreditPosting(ctx, res.Sale.ID, testUser)
	require.NoError(t, err)
	assert.True(t, entry.Amount.Equal(dec("300")))
	assert.Equal(t, int64(4), h.product(t, p.ID).Quantity)
	assert.True(t, h.partner(t, client.ID).Balance.Equal(dec("500")))

	// Un asiento manual nuevo sí respeta el límite
	_, err = l.RecordPartnerTransaction(ctx, engine.RecordTransactionInput{
		PartnerID: client.ID, Type: entity.TransactionTypeInvoice, Amount: dec("1"), PerformedBy: testUser,
	})
	assert.ErrorIs(t, err, domain.ErrCreditLimitExceeded)
}

func TestRetryCreditPosting_VentaNoACredito(t *testing.T) {
	h := newHarness(t, engine.AllowNegative)
	p := h.seedProduct(t, "A", 1, nil)
	res, err := h.sales.CommitSale(context.Background(), engine.CommitSaleInput{
		PaymentMethod: entity.PaymentCash,
		Items:         []engine.CartLine{{ProductID: p.ID, Quantity: 1, Price: dec("1")}},
	})
	require.NoError(t, err)

	_, err = h.sales.RetryCreditPosting(context.Background(), res.Sale.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = h.sales.RetryCreditPosting(context.Background(), "no-existe", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCommitSale_SinCatalogoUsaNombreDeCaja(t *testing.T) {
	h := newHarness(t, engine.AllowNegative)
	p := h.seedProduct(t, "Nombre en catálogo", 3, decPtr("10"))
	queue := &queueingStub{}
	sales := engine.NewSaleEngine(h.store.Repos(), queue, h.ledger, engine.AllowNegative, zerolog.Nop())
	h.store.SetOffline(true)

	res, err := sales.CommitSale(context.Background(), engine.CommitSaleInput{
		PaymentMethod: entity.PaymentCash,
		Items:         []engine.CartLine{{ProductID: p.ID, Quantity: 2, Price: dec("15"), Name: "Nombre en caja"}},
	})
	require.NoError(t, err)
	assert.Equal(t, engine.Queued, res.Outcome)
	require.Len(t, res.Sale.Items, 1)
	assert.Equal(t, "Nombre en caja", res.Sale.Items[0].Name)
	assert.Nil(t, res.Sale.Items[0].CostPrice)

	require.Len(t, queue.batches, 1)
	b := queue.batches[0]
	assert.Equal(t, res.Sale.ID, b.ID)
	require.Len(t, b.Deltas, 1)
	assert.Equal(t, int64(-2), b.Deltas[0].Delta)
	require.Len(t, b.Movements, 1)
	assert.Equal(t, entity.MovementTypeOUT, b.Movements[0].Type)
}
