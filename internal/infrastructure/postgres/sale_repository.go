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
	_ repository.SaleRepository   = (*SaleRepo)(nil)
	_ repository.SupplyRepository = (*SupplyRepo)(nil)
)

const (
	salesTable    = "sales"
	suppliesTable = "supplies"
)

var saleColumns = []string{
	"id", "date", "customer_name", "total", "payment_method", "amount_paid",
	"reference", "partner_id", "invoice_id", "items", "performed_by",
}

// items se guarda como JSONB con la foto de nombre, precio y costo de cada línea.
type saleRow struct {
	ID            string            `db:"id"`
	Date          time.Time         `db:"date"`
	CustomerName  string            `db:"customer_name"`
	Total         decimal.Decimal   `db:"total"`
	PaymentMethod string            `db:"payment_method"`
	AmountPaid    *decimal.Decimal  `db:"amount_paid"`
	Reference     string            `db:"reference"`
	PartnerID     string            `db:"partner_id"`
	InvoiceID     string            `db:"invoice_id"`
	Items         []entity.SaleItem `db:"items"`
	PerformedBy   string            `db:"performed_by"`
}

func (r saleRow) toEntity() *entity.Sale {
	return &entity.Sale{
		ID:            r.ID,
		Date:          r.Date,
		CustomerName:  r.CustomerName,
		Total:         r.Total,
		PaymentMethod: r.PaymentMethod,
		AmountPaid:    r.AmountPaid,
		Reference:     r.Reference,
		PartnerID:     r.PartnerID,
		InvoiceID:     r.InvoiceID,
		Items:         r.Items,
		PerformedBy:   r.PerformedBy,
	}
}

// SaleRepo ventas sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el repositorio. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func insertSale(s *entity.Sale) squirrel.InsertBuilder {
	items := s.Items
	if items == nil {
		items = []entity.SaleItem{}
	}
	return psql.Insert(salesTable).Columns(saleColumns...).Values(
		s.ID, s.Date, s.CustomerName, s.Total, s.PaymentMethod, s.AmountPaid,
		s.Reference, s.PartnerID, s.InvoiceID, items, s.PerformedBy,
	)
}

// Create inserta la venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	if _, err := exec(ctx, r.q, insertSale(s), "insert sale"); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	row, err := getOne[saleRow](ctx, r.q, psql.Select(saleColumns...).From(salesTable).Where(squirrel.Eq{"id": id}), "get sale")
	if err != nil || row == nil {
		return nil, err
	}
	return row.toEntity(), nil
}

// List ventas por rango de fechas, más reciente primero.
func (r *SaleRepo) List(ctx context.Context, f repository.DateRange) ([]*entity.Sale, error) {
	b := withDateRange(psql.Select(saleColumns...).From(salesTable).OrderBy("date DESC"), f)
	rows, err := selectAll[saleRow](ctx, r.q, b, "list sales")
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Sale, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

var supplyColumns = []string{
	"id", "date", "supplier_id", "supplier_name", "total_cost", "status", "on_credit", "items", "performed_by",
}

type supplyRow struct {
	ID           string              `db:"id"`
	Date         time.Time           `db:"date"`
	SupplierID   string              `db:"supplier_id"`
	SupplierName string              `db:"supplier_name"`
	TotalCost    decimal.Decimal     `db:"total_cost"`
	Status       string              `db:"status"`
	OnCredit     bool                `db:"on_credit"`
	Items        []entity.SupplyItem `db:"items"`
	PerformedBy  string              `db:"performed_by"`
}

func (r supplyRow) toEntity() *entity.Supply {
	return &entity.Supply{
		ID:           r.ID,
		Date:         r.Date,
		SupplierID:   r.SupplierID,
		SupplierName: r.SupplierName,
		TotalCost:    r.TotalCost,
		Status:       r.Status,
		OnCredit:     r.OnCredit,
		Items:        r.Items,
		PerformedBy:  r.PerformedBy,
	}
}

// SupplyRepo aprovisionamientos sobre PostgreSQL.
type SupplyRepo struct {
	q Querier
}

// NewSupplyRepository construye el repositorio. Pasar pool o tx (Querier).
func NewSupplyRepository(q Querier) *SupplyRepo {
	return &SupplyRepo{q: q}
}

// Create inserta el aprovisionamiento.
func (r *SupplyRepo) Create(ctx context.Context, s *entity.Supply) error {
	b := psql.Insert(suppliesTable).Columns(supplyColumns...).Values(
		s.ID, s.Date, s.SupplierID, s.SupplierName, s.TotalCost, s.Status, s.OnCredit, s.Items, s.PerformedBy,
	)
	if _, err := exec(ctx, r.q, b, "insert supply"); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByID obtiene un aprovisionamiento por ID.
func (r *SupplyRepo) GetByID(ctx context.Context, id string) (*entity.Supply, error) {
	row, err := getOne[supplyRow](ctx, r.q, psql.Select(supplyColumns...).From(suppliesTable).Where(squirrel.Eq{"id": id}), "get supply")
	if err != nil || row == nil {
		return nil, err
	}
	return row.toEntity(), nil
}

// List aprovisionamientos por rango de fechas, más reciente primero.
func (r *SupplyRepo) List(ctx context.Context, f repository.DateRange) ([]*entity.Supply, error) {
	b := withDateRange(psql.Select(supplyColumns...).From(suppliesTable).OrderBy("date DESC"), f)
	rows, err := selectAll[supplyRow](ctx, r.q, b, "list supplies")
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Supply, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}
