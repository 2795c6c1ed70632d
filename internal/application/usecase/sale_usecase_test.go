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

func TestSale_CommitContadoConCambio(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.product(t, "A-1", 10, 0)
	paid := dec("500")

	res, err := f.sales.Commit(ctx, dto.CommitSaleRequest{
		PaymentMethod: entity.PaymentCash,
		AmountPaid:    &paid,
		Items:         []dto.CartLineRequest{{ProductID: p.ID, Quantity: 2, Price: dec("200")}},
	}, cashier)
	require.NoError(t, err)
	assert.Equal(t, "APPLIED", res.Outcome)
	assert.False(t, res.LedgerPending)
	assert.Nil(t, res.LedgerEntry)
	assert.True(t, dec("400").Equal(res.Sale.Total))
	require.NotNil(t, res.Sale.Change)
	assert.True(t, dec("100").Equal(*res.Sale.Change))
	assert.Equal(t, entity.DefaultCustomerName, res.Sale.CustomerName)
	assert.Equal(t, cashier, res.Sale.PerformedBy)

	got, err := f.sales.GetByID(ctx, res.Sale.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Sale.ID, got.ID)

	list, err := f.sales.List(ctx, dto.DateRangeRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.sales.GetByID(ctx, "no-existe")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSale_CommitCreditoAsientaEnCuenta(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.product(t, "A-1", 10, 0)
	client := f.partner(t, "Taller Ruiz", entity.PartnerTypeClient)

	res, err := f.sales.Commit(ctx, dto.CommitSaleRequest{
		PaymentMethod: entity.PaymentCredit,
		PartnerID:     client.ID,
		Items:         []dto.CartLineRequest{{ProductID: p.ID, Quantity: 3, Price: dec("100")}},
	}, cashier)
	require.NoError(t, err)
	require.NotNil(t, res.LedgerEntry)
	assert.True(t, dec("300").Equal(res.LedgerEntry.Amount))
	assert.Equal(t, res.Sale.ID, res.LedgerEntry.ReferenceID)

	st, err := f.partners.GetByID(ctx, client.ID)
	require.NoError(t, err)
	assert.True(t, dec("300").Equal(st.Partner.Balance))
	assert.Len(t, st.Transactions, 1)
}

func TestSale_AsientoPendienteNoRevierteLaVenta(t *testing.T) {
	f := newFixture(t, downRunner{})
	ctx := context.Background()
	p := f.product(t, "A-1", 10, 0)

	// el socio se crea directo en el store: la cuenta de socios no responde
	client := &entity.Partner{ID: "cli-1", Name: "Taller Ruiz", Type: entity.PartnerTypeClient}
	require.NoError(t, f.store.Repos().Partners.Create(ctx, client))

	res, err := f.sales.Commit(ctx, dto.CommitSaleRequest{
		PaymentMethod: entity.PaymentCredit,
		PartnerID:     client.ID,
		Items:         []dto.CartLineRequest{{ProductID: p.ID, Quantity: 1, Price: dec("100")}},
	}, cashier)
	require.NoError(t, err)
	assert.True(t, res.LedgerPending)
	assert.Nil(t, res.LedgerEntry)

	got, err := f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(9), got.Quantity)

	_, err = f.sales.RetryLedger(ctx, res.Sale.ID, cashier)
	require.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestSale_CommitRechazaEntradaInvalida(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.sales.Commit(context.Background(), dto.CommitSaleRequest{PaymentMethod: "BITCOIN"}, cashier)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSupply_ReceiveYList(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.product(t, "A-1", 10, 0)
	supplier := f.partner(t, "Distribuidora", entity.PartnerTypeSupplier)

	s, err := f.supplies.Receive(ctx, dto.ReceiveSupplyRequest{
		SupplierID: supplier.ID,
		OnCredit:   true,
		Items:      []dto.SupplyLineRequest{{ProductID: p.ID, Quantity: 5, BuyingPrice: dec("130")}},
	}, cashier)
	require.NoError(t, err)
	assert.Equal(t, entity.SupplyStatusCompleted, s.Status)
	assert.True(t, dec("650").Equal(s.TotalCost))
	assert.Equal(t, "Distribuidora", s.SupplierName)

	got, err := f.supplies.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)

	list, err := f.supplies.List(ctx, dto.DateRangeRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	st, err := f.partners.GetByID(ctx, supplier.ID)
	require.NoError(t, err)
	assert.True(t, dec("-650").Equal(st.Partner.Balance))

	_, err = f.supplies.GetByID(ctx, "no-existe")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
