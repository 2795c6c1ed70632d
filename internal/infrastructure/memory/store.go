// Package memory implementa los puertos de persistencia y las primitivas del motor sobre mapas
// en memoria. Se usa en modo desarrollo (STORAGE_DRIVER=memory) y en las pruebas.
//
// Las transacciones toman el candado exclusivo del Store durante toda la función y registran
// una acción de deshacer por cada escritura; si la función falla se deshace en orden inverso.
package memory

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jhoicas/pos-repuestos/internal/application/engine"
	"github.com/jhoicas/pos-repuestos/internal/domain"
	"github.com/jhoicas/pos-repuestos/internal/domain/entity"
	"github.com/jhoicas/pos-repuestos/internal/domain/repository"
)

var (
	_ engine.TransactionalUpdate = (*Store)(nil)
	_ engine.CommutativeDelta    = (*Store)(nil)
)

// Store almacenamiento en memoria seguro para uso concurrente.
type Store struct {
	mu      sync.RWMutex
	offline atomic.Bool

	products     map[string]entity.Product
	movements    []entity.StockMovement
	sales        map[string]entity.Sale
	supplies     map[string]entity.Supply
	partners     map[string]entity.Partner
	transactions []entity.Transaction
	invoices     map[string]entity.Invoice
	expenses     map[string]entity.Expense
}

// New crea un Store vacío.
func New() *Store {
	return &Store{
		products: make(map[string]entity.Product),
		sales:    make(map[string]entity.Sale),
		supplies: make(map[string]entity.Supply),
		partners: make(map[string]entity.Partner),
		invoices: make(map[string]entity.Invoice),
		expenses: make(map[string]entity.Expense),
	}
}

// SetOffline simula la pérdida de conexión: toda operación devuelve domain.ErrUnavailable.
func (s *Store) SetOffline(offline bool) { s.offline.Store(offline) }

// Repos repositorios en modo autocommit (cada operación toma su propio candado).
func (s *Store) Repos() engine.Repos { return s.repos(nil) }

// Expenses repositorio de gastos.
func (s *Store) Expenses() repository.ExpenseRepository { return &expenseRepo{scope{s: s}} }

func (s *Store) repos(tx *txLog) engine.Repos {
	sc := scope{s: s, tx: tx}
	return engine.Repos{
		Products:     &productRepo{sc},
		Movements:    &movementRepo{sc},
		Sales:        &saleRepo{sc},
		Supplies:     &supplyRepo{sc},
		Partners:     &partnerRepo{sc},
		Transactions: &transactionRepo{sc},
		Invoices:     &invoiceRepo{sc},
	}
}

// Run ejecuta fn con acceso exclusivo al Store; ante error deshace todas sus escrituras.
// Al serializar las transacciones no hay conflictos que reintentar.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, r engine.Repos) error) error {
	if s.offline.Load() {
		return domain.ErrUnavailable
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txLog{}
	if err := fn(ctx, s.repos(tx)); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

// Apply aplica el lote completo o nada. Un lote cuya venta ya existe se considera aplicado.
func (s *Store) Apply(ctx context.Context, b *engine.Batch) (engine.Outcome, error) {
	if s.offline.Load() {
		return 0, domain.ErrUnavailable
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.Sale != nil {
		if _, ok := s.sales[b.Sale.ID]; ok {
			return engine.Applied, nil
		}
	}
	net := make(map[string]int64, len(b.Deltas))
	for _, d := range b.Deltas {
		if _, ok := s.products[d.ProductID]; !ok {
			return 0, domain.ErrNotFound
		}
		net[d.ProductID] += d.Delta
	}
	if b.Guard == engine.ForbidOversell {
		for id, delta := range net {
			if delta < 0 && s.products[id].Quantity+delta < 0 {
				return 0, domain.ErrInsufficientStock
			}
		}
	}

	now := time.Now()
	for id, delta := range net {
		p := s.products[id]
		p.Quantity += delta
		p.UpdatedAt = now
		s.products[id] = p
	}
	s.movements = append(s.movements, b.Movements...)
	if b.Sale != nil {
		s.sales[b.Sale.ID] = cloneSale(*b.Sale)
	}
	return engine.Applied, nil
}

// txLog acciones de deshacer de una transacción en curso.
type txLog struct {
	undo []func()
}

func (t *txLog) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

// scope acceso al Store: dentro de una transacción el candado ya está tomado.
type scope struct {
	s  *Store
	tx *txLog
}

func (c scope) read(fn func()) error {
	if c.s.offline.Load() {
		return domain.ErrUnavailable
	}
	if c.tx == nil {
		c.s.mu.RLock()
		defer c.s.mu.RUnlock()
	}
	fn()
	return nil
}

// write ejecuta fn, que devuelve la acción para deshacer su efecto.
func (c scope) write(fn func() (func(), error)) error {
	if c.s.offline.Load() {
		return domain.ErrUnavailable
	}
	if c.tx == nil {
		c.s.mu.Lock()
		defer c.s.mu.Unlock()
	}
	undo, err := fn()
	if err != nil {
		return err
	}
	if c.tx != nil && undo != nil {
		c.tx.undo = append(c.tx.undo, undo)
	}
	return nil
}

func paginate[T any](xs []T, p repository.Page) []T {
	if p.Offset > 0 {
		if p.Offset >= len(xs) {
			return xs[:0]
		}
		xs = xs[p.Offset:]
	}
	if p.Limit > 0 && p.Limit < len(xs) {
		xs = xs[:p.Limit]
	}
	return xs
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

// newestFirst ordena por fecha descendente.
func newestFirst[T any](xs []*T, date func(*T) time.Time) {
	slices.SortStableFunc(xs, func(a, b *T) int {
		return date(b).Compare(date(a))
	})
}

func cloneSale(s entity.Sale) entity.Sale {
	s.Items = slices.Clone(s.Items)
	return s
}
