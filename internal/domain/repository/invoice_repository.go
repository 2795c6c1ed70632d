package repository

import (
	"context"

	"github.com/jhoicas/pos-repuestos/internal/domain/entity"
)

// InvoiceRepository proformas y facturas.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	List(ctx context.Context, page Page) ([]*entity.Invoice, error)
	UpdateStatus(ctx context.Context, id, status, saleID string) error
}

// ExpenseRepository gastos declarados.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	GetByID(ctx context.Context, id string) (*entity.Expense, error)
	List(ctx context.Context, status string) ([]*entity.Expense, error)
	Update(ctx context.Context, expense *entity.Expense) error
}
