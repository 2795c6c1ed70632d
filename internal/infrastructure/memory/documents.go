package memory

import (
	"context"
	"slices"
	"time"

	"github.com/jhoicas/pos-repuestos/internal/domain"
	"github.com/jhoicas/pos-repuestos/internal/domain/entity"
	"github.com/jhoicas/pos-repuestos/internal/domain/repository"
)

type saleRepo struct{ scope }

func (r *saleRepo) Create(_ context.Context, s *entity.Sale) error {
	return r.write(func() (func(), error) {
		if _, ok := r.s.sales[s.ID]; ok {
			return nil, domain.ErrDuplicate
		}
		r.s.sales[s.ID] = cloneSale(*s)
		id := s.ID
		return func() { delete(r.s.sales, id) }, nil
	})
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.read(func() {
		if s, ok := r.s.sales[id]; ok {
			s = cloneSale(s)
			out = &s
		}
	})
	return out, err
}

func (r *saleRepo) List(_ context.Context, f repository.DateRange) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.read(func() {
		for _, s := range r.s.sales {
			if !inRange(s.Date, f.From, f.To) {
				continue
			}
			s = cloneSale(s)
			out = append(out, &s)
		}
	})
	newestFirst(out, func(s *entity.Sale) time.Time { return s.Date })
	return paginate(out, f.Page), err
}

type supplyRepo struct{ scope }

func (r *supplyRepo) Create(_ context.Context, s *entity.Supply) error {
	return r.write(func() (func(), error) {
		if _, ok := r.s.supplies[s.ID]; ok {
			return nil, domain.ErrDuplicate
		}
		v := *s
		v.Items = slices.Clone(s.Items)
		r.s.supplies[s.ID] = v
		id := s.ID
		return func() { delete(r.s.supplies, id) }, nil
	})
}

func (r *supplyRepo) GetByID(_ context.Context, id string) (*entity.Supply, error) {
	var out *entity.Supply
	err := r.read(func() {
		if s, ok := r.s.supplies[id]; ok {
			s.Items = slices.Clone(s.Items)
			out = &s
		}
	})
	return out, err
}

func (r *supplyRepo) List(_ context.Context, f repository.DateRange) ([]*entity.Supply, error) {
	var out []*entity.Supply
	err := r.read(func() {
		for _, s := range r.s.supplies {
			if !inRange(s.Date, f.From, f.To) {
				continue
			}
			s.Items = slices.Clone(s.Items)
			out = append(out, &s)
		}
	})
	newestFirst(out, func(s *entity.Supply) time.Time { return s.Date })
	return paginate(out, f.Page), err
}

type invoiceRepo struct{ scope }

func (r *invoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	return r.write(func() (func(), error) {
		if _, ok := r.s.invoices[inv.ID]; ok {
			return nil, domain.ErrDuplicate
		}
		v := *inv
		v.Items = slices.Clone(inv.Items)
		r.s.invoices[inv.ID] = v
		id := inv.ID
		return func() { delete(r.s.invoices, id) }, nil
	})
}

func (r *invoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.read(func() {
		if inv, ok := r.s.invoices[id]; ok {
			inv.Items = slices.Clone(inv.Items)
			out = &inv
		}
	})
	return out, err
}

func (r *invoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *invoiceRepo) List(_ context.Context, page repository.Page) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	err := r.read(func() {
		for _, inv := range r.s.invoices {
			inv.Items = slices.Clone(inv.Items)
			out = append(out, &inv)
		}
	})
	newestFirst(out, func(i *entity.Invoice) time.Time { return i.Date })
	return paginate(out, page), err
}

func (r *invoiceRepo) UpdateStatus(_ context.Context, id, status, saleID string) error {
	return r.write(func() (func(), error) {
		prev, ok := r.s.invoices[id]
		if !ok {
			return nil, domain.ErrNotFound
		}
		next := prev
		next.Status = status
		if saleID != "" {
			next.SaleID = saleID
		}
		r.s.invoices[id] = next
		return func() { r.s.invoices[id] = prev }, nil
	})
}

type expenseRepo struct{ scope }

func (r *expenseRepo) Create(_ context.Context, e *entity.Expense) error {
	return r.write(func() (func(), error) {
		if _, ok := r.s.expenses[e.ID]; ok {
			return nil, domain.ErrDuplicate
		}
		r.s.expenses[e.ID] = *e
		return nil, nil
	})
}

func (r *expenseRepo) GetByID(_ context.Context, id string) (*entity.Expense, error) {
	var out *entity.Expense
	err := r.read(func() {
		if e, ok := r.s.expenses[id]; ok {
			out = &e
		}
	})
	return out, err
}

func (r *expenseRepo) List(_ context.Context, status string) ([]*entity.Expense, error) {
	var out []*entity.Expense
	err := r.read(func() {
		for _, e := range r.s.expenses {
			if status != "" && e.Status != status {
				continue
			}
			out = append(out, &e)
		}
	})
	newestFirst(out, func(e *entity.Expense) time.Time { return e.Date })
	return out, err
}

func (r *expenseRepo) Update(_ context.Context, e *entity.Expense) error {
	return r.write(func() (func(), error) {
		if _, ok := r.s.expenses[e.ID]; !ok {
			return nil, domain.ErrNotFound
		}
		r.s.expenses[e.ID] = *e
		return nil, nil
	})
}
