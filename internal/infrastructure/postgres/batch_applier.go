package postgres

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/pos-repuestos/internal/application/engine"
	"github.com/jhoicas/pos-repuestos/internal/domain"
)

var _ engine.CommutativeDelta = (*BatchApplier)(nil)

// BatchApplier aplica lotes de venta: la venta, los incrementos de existencia y los movimientos
// se confirman en una sola transacción, sin leer la existencia previa.
type BatchApplier struct {
	pool   *pgxpool.Pool
	policy retryPolicy
	log    zerolog.Logger
}

// NewBatchApplier construye el aplicador de lotes.
func NewBatchApplier(pool *pgxpool.Pool, maxAttempts int, log zerolog.Logger) *BatchApplier {
	return &BatchApplier{
		pool:   pool,
		policy: retryPolicy{maxAttempts: maxAttempts},
		log:    log,
	}
}

// Apply confirma el lote completo o nada. Un lote cuya venta ya existe se considera aplicado,
// por lo que reaplicar un lote encolado no duplica efectos.
func (a *BatchApplier) Apply(ctx context.Context, b *engine.Batch) (engine.Outcome, error) {
	ctx, span := tracer.Start(ctx, "commutative_batch", trace.WithAttributes(
		attribute.String("batch.id", b.ID),
		attribute.Int("batch.deltas", len(b.Deltas)),
	))
	defer span.End()

	exhausted, err := a.policy.do(ctx, func(int) error { return a.applyOnce(ctx, b) })
	if exhausted {
		err = fmt.Errorf("%w: %v", domain.ErrConcurrentConflict, err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	return engine.Applied, nil
}

func (a *BatchApplier) applyOnce(ctx context.Context, b *engine.Batch) error {
	tx, err := a.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return classify("begin batch", err)
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	if b.Sale != nil {
		sql, args, err := insertSale(b.Sale).Suffix("ON CONFLICT (id) DO NOTHING").ToSql()
		if err != nil {
			return fmt.Errorf("build insert sale: %w", err)
		}
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return classify("insert sale", err)
		}
		if tag.RowsAffected() == 0 {
			a.log.Info().Str("batch_id", b.ID).Msg("lote ya aplicado, se omite")
			return nil
		}
	}

	deltas := netDeltas(b.Deltas)
	batch := &pgx.Batch{}
	for _, d := range deltas {
		upd := psql.Update(productsTable).
			Set("quantity", squirrel.Expr("quantity + ?", d.Delta)).
			Set("updated_at", squirrel.Expr("now()")).
			Where(squirrel.Eq{"id": d.ProductID})
		if b.Guard == engine.ForbidOversell && d.Delta < 0 {
			upd = upd.Where(squirrel.Expr("quantity + ? >= 0", d.Delta))
		}
		sql, args, err := upd.ToSql()
		if err != nil {
			return fmt.Errorf("build update quantity: %w", err)
		}
		batch.Queue(sql, args...)
	}
	for i := range b.Movements {
		sql, args, err := insertMovement(&b.Movements[i]).ToSql()
		if err != nil {
			return fmt.Errorf("build insert movement: %w", err)
		}
		batch.Queue(sql, args...)
	}

	var rejected string
	br := tx.SendBatch(ctx, batch)
	for _, d := range deltas {
		tag, err := br.Exec()
		if err != nil {
			_ = br.Close()
			return classify("update quantity", err)
		}
		if tag.RowsAffected() == 0 && rejected == "" {
			rejected = d.ProductID
		}
	}
	if rejected == "" {
		for range b.Movements {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return classify("insert movement", err)
			}
		}
	}
	if err := br.Close(); err != nil {
		return classify("close batch", err)
	}
	if rejected != "" {
		return a.rejection(ctx, tx, rejected)
	}

	if err := tx.Commit(ctx); err != nil {
		return classify("commit batch", err)
	}
	return nil
}

// rejection distingue producto inexistente de existencia insuficiente.
func (a *BatchApplier) rejection(ctx context.Context, tx pgx.Tx, productID string) error {
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists); err != nil {
		return classify("check product", err)
	}
	if !exists {
		return fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	return fmt.Errorf("producto %s: %w", productID, domain.ErrInsufficientStock)
}

// netDeltas agrupa por producto y ordena por ID para tomar los bloqueos siempre en el mismo orden.
func netDeltas(in []engine.QuantityDelta) []engine.QuantityDelta {
	sum := make(map[string]int64, len(in))
	for _, d := range in {
		sum[d.ProductID] += d.Delta
	}
	out := make([]engine.QuantityDelta, 0, len(sum))
	for id, delta := range sum {
		out = append(out, engine.QuantityDelta{ProductID: id, Delta: delta})
	}
	slices.SortFunc(out, func(a, b engine.QuantityDelta) int {
		return strings.Compare(a.ProductID, b.ProductID)
	})
	return out
}
