package postgres

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-repuestos/internal/domain"
	"github.com/jhoicas/pos-repuestos/internal/domain/entity"
	"github.com/jhoicas/pos-repuestos/internal/domain/repository"
)

var (
	_ repository.InvoiceRepository = (*InvoiceRepo)(nil)
	_ repository.ExpenseRepository = (*ExpenseRepo)(nil)
)

const (
	invoicesTable = "invoices"
	expensesTable = "expenses"
)

var invoiceColumns = []string{
	"id", "type", "number", "date", "valid_until", "client_name", "items", "total", "status", "sale_id", "created_at", "created_by",
}

type invoiceRow struct {
	ID         string               `db:"id"`
	Type       string               `db:"type"`
	Number     string               `db:"number"`
	Date       time.Time            `db:"date"`
	ValidUntil *time.Time           `db:"valid_until"`
	ClientName string               `db:"client_name"`
	Items      []entity.InvoiceItem `db:"items"`
	Total      decimal.Decimal      `db:"total"`
	Status     string               `db:"status"`
	SaleID     string               `db:"sale_id"`
	CreatedAt  time.Time            `db:"created_at"`
	CreatedBy  string               `db:"created_by"`
}

func (r invoiceRow) toEntity() *entity.Invoice {
	return &entity.Invoice{
		ID:         r.ID,
		Type:       r.Type,
		Number:     r.Number,
		Date:       r.Date,
		ValidUntil: r.ValidUntil,
		ClientName: r.ClientName,
		Items:      r.Items,
		Total:      r.Total,
		Status:     r.Status,
		SaleID:     r.SaleID,
		CreatedAt:  r.CreatedAt,
		CreatedBy:  r.CreatedBy,
	}
}

// InvoiceRepo proformas y facturas sobre PostgreSQL.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el repositorio. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create inserta el documento.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	b := psql.Insert(invoicesTable).Columns(invoiceColumns...).Values(
		inv.ID, inv.Type, inv.Number, inv.Date, inv.ValidUntil, inv.ClientName, inv.Items,
		inv.Total, inv.Status, inv.SaleID, inv.CreatedAt, inv.CreatedBy,
	)
	if _, err := exec(ctx, r.q, b, "insert invoice"); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByID obtiene un documento por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getOne(ctx, psql.Select(invoiceColumns...).From(invoicesTable).Where(squirrel.Eq{"id": id}), "get invoice")
}

// GetForUpdate obtiene el documento bloqueando la fila.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getOne(ctx, psql.Select(invoiceColumns...).From(invoicesTable).Where(squirrel.Eq{"id": id}).Suffix("FOR UPDATE"), "get invoice for update")
}

func (r *InvoiceRepo) getOne(ctx context.Context, b squirrel.SelectBuilder, op string) (*entity.Invoice, error) {
	row, err := getOne[invoiceRow](ctx, r.q, b, op)
	if err != nil || row == nil {
		return nil, err
	}
	return row.toEntity(), nil
}

// List documentos, más reciente primero.
func (r *InvoiceRepo) List(ctx context.Context, page repository.Page) ([]*entity.Invoice, error) {
	b := withPage(psql.Select(invoiceColumns...).From(invoicesTable).OrderBy("date DESC"), page)
	rows, err := selectAll[invoiceRow](ctx, r.q, b, "list invoices")
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Invoice, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// UpdateStatus cambia el estado; saleID vacío conserva el actual.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, id, status, saleID string) error {
	b := psql.Update(invoicesTable).Set("status", status).Where(squirrel.Eq{"id": id})
	if saleID != "" {
		b = b.Set("sale_id", saleID)
	}
	tag, err := exec(ctx, r.q, b, "update invoice status")
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var expenseColumns = []string{
	"id", "date", "category", "type", "description", "amount", "status", "performed_by", "reviewed_by", "reviewed_at",
}

type expenseRow struct {
	ID          string          `db:"id"`
	Date        time.Time       `db:"date"`
	Category    string          `db:"category"`
	Type        string          `db:"type"`
	Description string          `db:"description"`
	Amount      decimal.Decimal `db:"amount"`
	Status      string          `db:"status"`
	PerformedBy string          `db:"performed_by"`
	ReviewedBy  string          `db:"reviewed_by"`
	ReviewedAt  *time.Time      `db:"reviewed_at"`
}

func (r expenseRow) toEntity() *entity.Expense {
	return &entity.Expense{
		ID:          r.ID,
		Date:        r.Date,
		Category:    r.Category,
		Type:        r.Type,
		Description: r.Description,
		Amount:      r.Amount,
		Status:      r.Status,
		PerformedBy: r.PerformedBy,
		ReviewedBy:  r.ReviewedBy,
		ReviewedAt:  r.ReviewedAt,
	}
}

// ExpenseRepo gastos sobre PostgreSQL.
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el repositorio. Pasar pool o tx (Querier).
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

// Create inserta el gasto.
func (r *ExpenseRepo) Create(ctx context.Context, e *entity.Expense) error {
	b := psql.Insert(expensesTable).Columns(expenseColumns...).Values(
		e.ID, e.Date, e.Category, e.Type, e.Description, e.Amount, e.Status, e.PerformedBy, e.ReviewedBy, e.ReviewedAt,
	)
	_, err := exec(ctx, r.q, b, "insert expense")
	return err
}

// GetByID obtiene un gasto por ID.
func (r *ExpenseRepo) GetByID(ctx context.Context, id string) (*entity.Expense, error) {
	row, err := getOne[expenseRow](ctx, r.q, psql.Select(expenseColumns...).From(expensesTable).Where(squirrel.Eq{"id": id}), "get expense")
	if err != nil || row == nil {
		return nil, err
	}
	return row.toEntity(), nil
}

// List gastos por estado; vacío devuelve todos.
func (r *ExpenseRepo) List(ctx context.Context, status string) ([]*entity.Expense, error) {
	b := psql.Select(expenseColumns...).From(expensesTable).OrderBy("date DESC")
	if status != "" {
		b = b.Where(squirrel.Eq{"status": status})
	}
	rows, err := selectAll[expenseRow](ctx, r.q, b, "list expenses")
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Expense, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// Update persiste la revisión del gasto.
func (r *ExpenseRepo) Update(ctx context.Context, e *entity.Expense) error {
	b := psql.Update(expensesTable).SetMap(map[string]any{
		"status":      e.Status,
		"reviewed_by": e.ReviewedBy,
		"reviewed_at": e.ReviewedAt,
		"description": e.Description,
	}).Where(squirrel.Eq{"id": e.ID})
	tag, err := exec(ctx, r.q, b, "update expense")
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
