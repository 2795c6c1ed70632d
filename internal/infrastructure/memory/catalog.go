package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-repuestos/internal/domain"
	"github.com/jhoicas/pos-repuestos/internal/domain/entity"
	"github.com/jhoicas/pos-repuestos/internal/domain/repository"
)

type productRepo struct{ scope }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	return r.write(func() (func(), error) {
		if _, ok := r.s.products[p.ID]; ok {
			return nil, domain.ErrDuplicate
		}
		for _, existing := range r.s.products {
			if strings.EqualFold(existing.SKU, p.SKU) {
				return nil, domain.ErrDuplicate
			}
		}
		r.s.products[p.ID] = *p
		id := p.ID
		return func() { delete(r.s.products, id) }, nil
	})
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.read(func() {
		if p, ok := r.s.products[id]; ok {
			out = &p
		}
	})
	return out, err
}

// GetForUpdate dentro de una transacción el Store ya está bloqueado.
func (r *productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *productRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.read(func() {
		for _, p := range r.s.products {
			if strings.EqualFold(p.SKU, sku) {
				p := p
				out = &p
				return
			}
		}
	})
	return out, err
}

func (r *productRepo) List(_ context.Context, page repository.Page) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.read(func() {
		out = make([]*entity.Product, 0, len(r.s.products))
		for _, p := range r.s.products {
			p := p
			out = append(out, &p)
		}
	})
	slices.SortFunc(out, func(a, b *entity.Product) int { return strings.Compare(a.Name, b.Name) })
	return paginate(out, page), err
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	return r.write(func() (func(), error) {
		prev, ok := r.s.products[p.ID]
		if !ok {
			return nil, domain.ErrNotFound
		}
		for id, existing := range r.s.products {
			if id != p.ID && strings.EqualFold(existing.SKU, p.SKU) {
				return nil, domain.ErrDuplicate
			}
		}
		next := prev
		next.Name = p.Name
		next.SKU = p.SKU
		next.Category = p.Category
		next.Price = p.Price
		next.MinStock = p.MinStock
		next.ImageURL = p.ImageURL
		next.UpdatedAt = p.UpdatedAt
		r.s.products[p.ID] = next
		return func() { r.s.products[prev.ID] = prev }, nil
	})
}

func (r *productRepo) ApplyDelta(_ context.Context, id string, quantityDelta int64, newCost *decimal.Decimal) error {
	return r.write(func() (func(), error) {
		prev, ok := r.s.products[id]
		if !ok {
			return nil, domain.ErrNotFound
		}
		next := prev
		next.Quantity += quantityDelta
		if newCost != nil {
			c := *newCost
			next.CostPrice = &c
		}
		next.UpdatedAt = time.Now()
		r.s.products[id] = next
		return func() { r.s.products[id] = prev }, nil
	})
}

type movementRepo struct{ scope }

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return r.write(func() (func(), error) {
		r.s.movements = append(r.s.movements, *m)
		n := len(r.s.movements) - 1
		return func() { r.s.movements = r.s.movements[:n] }, nil
	})
}

func (r *movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.read(func() {
		for _, m := range r.s.movements {
			if f.ProductID != "" && m.ProductID != f.ProductID {
				continue
			}
			if f.Type != "" && m.Type != f.Type {
				continue
			}
			if !inRange(m.Date, f.From, f.To) {
				continue
			}
			m := m
			out = append(out, &m)
		}
	})
	newestFirst(out, func(m *entity.StockMovement) time.Time { return m.Date })
	return paginate(out, f.Page), err
}

func (r *movementRepo) NetByProduct(_ context.Context) (map[string]int64, error) {
	net := make(map[string]int64)
	err := r.read(func() {
		for _, m := range r.s.movements {
			net[m.ProductID] += m.SignedQuantity()
		}
	})
	return net, err
}
