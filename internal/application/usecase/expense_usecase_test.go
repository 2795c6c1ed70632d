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

func TestExpense_DeclararYValidar(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	e, err := f.expenses.Declare(ctx, dto.ExpenseRequest{Category: "variable", Type: "Transporte", Amount: dec("45")}, cashier)
	require.NoError(t, err)
	assert.Equal(t, entity.ExpenseStatusPending, e.Status)
	assert.Equal(t, entity.ExpenseCategoryVariable, e.Category)

	approved, err := f.expenses.Approve(ctx, e.ID, "gerente")
	require.NoError(t, err)
	assert.Equal(t, entity.ExpenseStatusApproved, approved.Status)
	assert.Equal(t, "gerente", approved.ReviewedBy)
	require.NotNil(t, approved.ReviewedAt)

	_, err = f.expenses.Reject(ctx, e.ID, "gerente")
	require.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.expenses.Approve(ctx, "no-existe", "gerente")
	require.ErrorIs(t, err, domain.ErrNotFound)

	r, err := f.expenses.Declare(ctx, dto.ExpenseRequest{Category: "FIXED", Type: "Alquiler", Amount: dec("900")}, cashier)
	require.NoError(t, err)
	_, err = f.expenses.Reject(ctx, r.ID, "gerente")
	require.NoError(t, err)

	pending, err := f.expenses.List(ctx, entity.ExpenseStatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)
	all, err := f.expenses.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestExpense_DeclararEntradaInvalida(t *testing.T) {
	f := newFixture(t, nil)
	cases := []dto.ExpenseRequest{
		{Category: "OTHER", Type: "X", Amount: dec("1")},
		{Category: "FIXED", Type: "", Amount: dec("1")},
		{Category: "FIXED", Type: "X", Amount: dec("0")},
	}
	for _, in := range cases {
		_, err := f.expenses.Declare(context.Background(), in, cashier)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestPartner_CreateYAsientos(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	c, err := f.partners.Create(ctx, dto.CreatePartnerRequest{
		Name: "Taller Ruiz", Type: "client", OpeningBalance: dec("120"), CreditLimit: dec("1000"),
	}, cashier)
	require.NoError(t, err)
	assert.Equal(t, entity.PartnerTypeClient, c.Type)
	assert.True(t, dec("120").Equal(c.Balance))

	tx, err := f.partners.RecordTransaction(ctx, c.ID, dto.RecordTransactionRequest{Type: "payment", Amount: dec("20")}, cashier)
	require.NoError(t, err)
	assert.True(t, dec("-20").Equal(tx.Amount))

	st, err := f.partners.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, dec("100").Equal(st.Partner.Balance))
	assert.Len(t, st.Transactions, 2)

	_, err = f.partners.Create(ctx, dto.CreatePartnerRequest{Name: "Prov", Type: "SUPPLIER", CreditLimit: dec("10")}, cashier)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	clients, err := f.partners.List(ctx, "client")
	require.NoError(t, err)
	assert.Len(t, clients, 1)
	_, err = f.partners.List(ctx, "EMPLOYEE")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.partners.GetByID(ctx, "no-existe")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
