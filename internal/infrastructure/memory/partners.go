package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-repuestos/internal/domain"
	"github.com/jhoicas/pos-repuestos/internal/domain/entity"
)

type partnerRepo struct{ scope }

func (r *partnerRepo) Create(_ context.Context, p *entity.Partner) error {
	return r.write(func() (func(), error) {
		if _, ok := r.s.partners[p.ID]; ok {
			return nil, domain.ErrDuplicate
		}
		r.s.partners[p.ID] = *p
		id := p.ID
		return func() { delete(r.s.partners, id) }, nil
	})
}

func (r *partnerRepo) GetByID(_ context.Context, id string) (*entity.Partner, error) {
	var out *entity.Partner
	err := r.read(func() {
		if p, ok := r.s.partners[id]; ok {
			out = &p
		}
	})
	return out, err
}

func (r *partnerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Partner, error) {
	return r.GetByID(ctx, id)
}

func (r *partnerRepo) List(_ context.Context, partnerType string) ([]*entity.Partner, error) {
	var out []*entity.Partner
	err := r.read(func() {
		for _, p := range r.s.partners {
			if partnerType != "" && p.Type != partnerType {
				continue
			}
			out = append(out, &p)
		}
	})
	slices.SortFunc(out, func(a, b *entity.Partner) int { return strings.Compare(a.Name, b.Name) })
	return out, err
}

func (r *partnerRepo) SetBalance(_ context.Context, id string, balance decimal.Decimal) error {
	return r.write(func() (func(), error) {
		prev, ok := r.s.partners[id]
		if !ok {
			return nil, domain.ErrNotFound
		}
		next := prev
		next.Balance = balance
		next.UpdatedAt = time.Now()
		r.s.partners[id] = next
		return func() { r.s.partners[id] = prev }, nil
	})
}

type transactionRepo struct{ scope }

func (r *transactionRepo) Create(_ context.Context, t *entity.Transaction) error {
	return r.write(func() (func(), error) {
		if t.ReferenceID != "" {
			for _, existing := range r.s.transactions {
				if existing.PartnerID == t.PartnerID && existing.Type == t.Type && existing.ReferenceID == t.ReferenceID {
					return nil, domain.ErrDuplicate
				}
			}
		}
		r.s.transactions = append(r.s.transactions, *t)
		n := len(r.s.transactions) - 1
		return func() { r.s.transactions = r.s.transactions[:n] }, nil
	})
}

func (r *transactionRepo) ListByPartner(_ context.Context, partnerID string) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	err := r.read(func() {
		for _, t := range r.s.transactions {
			if t.PartnerID == partnerID {
				out = append(out, &t)
			}
		}
	})
	newestFirst(out, func(t *entity.Transaction) time.Time { return t.Date })
	return out, err
}

func (r *transactionRepo) GetByReference(_ context.Context, partnerID, txType, referenceID string) (*entity.Transaction, error) {
	var out *entity.Transaction
	err := r.read(func() {
		for _, t := range r.s.transactions {
			if t.PartnerID == partnerID && t.Type == txType && t.ReferenceID == referenceID {
				out = &t
				return
			}
		}
	})
	return out, err
}

func (r *transactionRepo) NetByPartner(_ context.Context) (map[string]decimal.Decimal, error) {
	net := make(map[string]decimal.Decimal)
	err := r.read(func() {
		for _, t := range r.s.transactions {
			net[t.PartnerID] = net[t.PartnerID].Add(t.Amount)
		}
	})
	return net, err
}
