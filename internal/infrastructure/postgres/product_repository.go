package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-repuestos/internal/domain"
	"github.com/jhoicas/pos-repuestos/internal/domain/entity"
	"github.com/jhoicas/pos-repuestos/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productsTable = "products"

var productColumns = []string{
	"id", "name", "sku", "category", "price", "cost_price", "quantity",
	"initial_quantity", "min_stock", "image_url", "created_at", "updated_at",
}

type productRow struct {
	ID              string           `db:"id"`
	Name            string           `db:"name"`
	SKU             string           `db:"sku"`
	Category        string           `db:"category"`
	Price           decimal.Decimal  `db:"price"`
	CostPrice       *decimal.Decimal `db:"cost_price"`
	Quantity        int64            `db:"quantity"`
	InitialQuantity int64            `db:"initial_quantity"`
	MinStock        int64            `db:"min_stock"`
	ImageURL        string           `db:"image_url"`
	CreatedAt       time.Time        `db:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at"`
}

func (r productRow) toEntity() *entity.Product {
	return &entity.Product{
		ID:              r.ID,
		Name:            r.Name,
		SKU:             r.SKU,
		Category:        r.Category,
		Price:           r.Price,
		CostPrice:       r.CostPrice,
		Quantity:        r.Quantity,
		InitialQuantity: r.InitialQuantity,
		MinStock:        r.MinStock,
		ImageURL:        r.ImageURL,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	b := psql.Insert(productsTable).Columns(productColumns...).Values(
		p.ID, p.Name, p.SKU, p.Category, p.Price, p.CostPrice, p.Quantity,
		p.InitialQuantity, p.MinStock, p.ImageURL, p.CreatedAt, p.UpdatedAt,
	)
	if _, err := exec(ctx, r.q, b, "insert product"); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, psql.Select(productColumns...).From(productsTable).Where(squirrel.Eq{"id": id}), "get product")
}

// GetForUpdate obtiene el producto bloqueando la fila (SELECT ... FOR UPDATE).
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, psql.Select(productColumns...).From(productsTable).Where(squirrel.Eq{"id": id}).Suffix("FOR UPDATE"), "get product for update")
}

// GetBySKU busca sin distinguir mayúsculas.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.getOne(ctx, psql.Select(productColumns...).From(productsTable).Where("upper(sku) = upper(?)", sku), "get product by sku")
}

func (r *ProductRepo) getOne(ctx context.Context, b squirrel.SelectBuilder, op string) (*entity.Product, error) {
	row, err := getOne[productRow](ctx, r.q, b, op)
	if err != nil || row == nil {
		return nil, err
	}
	return row.toEntity(), nil
}

// List lista productos por nombre con paginación.
func (r *ProductRepo) List(ctx context.Context, page repository.Page) ([]*entity.Product, error) {
	rows, err := selectAll[productRow](ctx, r.q, withPage(psql.Select(productColumns...).From(productsTable).OrderBy("name"), page), "list products")
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// Update actualiza campos descriptivos. No permite modificar existencia ni costo (se manejan vía motor).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	b := psql.Update(productsTable).SetMap(map[string]any{
		"name":       p.Name,
		"sku":        p.SKU,
		"category":   p.Category,
		"price":      p.Price,
		"min_stock":  p.MinStock,
		"image_url":  p.ImageURL,
		"updated_at": p.UpdatedAt,
	}).Where(squirrel.Eq{"id": p.ID})
	tag, err := exec(ctx, r.q, b, "update product")
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ApplyDelta suma quantityDelta y, si newCost no es nil, reemplaza el costo promedio.
func (r *ProductRepo) ApplyDelta(ctx context.Context, id string, quantityDelta int64, newCost *decimal.Decimal) error {
	b := psql.Update(productsTable).
		Set("quantity", squirrel.Expr("quantity + ?", quantityDelta)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id})
	if newCost != nil {
		b = b.Set("cost_price", *newCost)
	}
	tag, err := exec(ctx, r.q, b, "apply product delta")
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("apply product delta %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
