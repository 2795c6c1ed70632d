package postgres

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/jhoicas/pos-repuestos/internal/domain/entity"
	"github.com/jhoicas/pos-repuestos/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementsTable = "stock_movements"

var movementColumns = []string{
	"id", "date", "type", "product_id", "product_name", "quantity", "reason", "reference_id", "performed_by",
}

type movementRow struct {
	ID          string    `db:"id"`
	Date        time.Time `db:"date"`
	Type        string    `db:"type"`
	ProductID   string    `db:"product_id"`
	ProductName string    `db:"product_name"`
	Quantity    int64     `db:"quantity"`
	Reason      string    `db:"reason"`
	ReferenceID string    `db:"reference_id"`
	PerformedBy string    `db:"performed_by"`
}

// StockMovementRepo libro de stock sobre PostgreSQL.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el repositorio. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

func insertMovement(m *entity.StockMovement) squirrel.InsertBuilder {
	return psql.Insert(movementsTable).Columns(movementColumns...).Values(
		m.ID, m.Date, m.Type, m.ProductID, m.ProductName, m.Quantity, m.Reason, m.ReferenceID, m.PerformedBy,
	)
}

// Create inserta un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	_, err := exec(ctx, r.q, insertMovement(m), "insert stock movement")
	return err
}

// List historial filtrado, más reciente primero.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	b := psql.Select(movementColumns...).From(movementsTable).OrderBy("date DESC")
	if f.ProductID != "" {
		b = b.Where(squirrel.Eq{"product_id": f.ProductID})
	}
	if f.Type != "" {
		b = b.Where(squirrel.Eq{"type": f.Type})
	}
	b = withDateRange(b, repository.DateRange{From: f.From, To: f.To, Page: f.Page})

	rows, err := selectAll[movementRow](ctx, r.q, b, "list stock movements")
	if err != nil {
		return nil, err
	}
	out := make([]*entity.StockMovement, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.StockMovement{
			ID:          row.ID,
			Date:        row.Date,
			Type:        row.Type,
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			Quantity:    row.Quantity,
			Reason:      row.Reason,
			ReferenceID: row.ReferenceID,
			PerformedBy: row.PerformedBy,
		})
	}
	return out, nil
}

// NetByProduct suma firmada (IN +, OUT -) por producto.
func (r *StockMovementRepo) NetByProduct(ctx context.Context) (map[string]int64, error) {
	type netRow struct {
		ProductID string `db:"product_id"`
		Net       int64  `db:"net"`
	}
	b := psql.Select("product_id", "COALESCE(SUM(CASE WHEN type = 'IN' THEN quantity ELSE -quantity END), 0)::bigint AS net").
		From(movementsTable).
		GroupBy("product_id")
	rows, err := selectAll[netRow](ctx, r.q, b, "net stock movements")
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.ProductID] = row.Net
	}
	return out, nil
}
