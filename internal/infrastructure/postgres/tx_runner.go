package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/pos-repuestos/internal/application/engine"
	"github.com/jhoicas/pos-repuestos/internal/domain"
)

var tracer = otel.Tracer("pos-repuestos/postgres")

// Ensure TxRunner implements engine.TransactionalUpdate.
var _ engine.TransactionalUpdate = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción SERIALIZABLE y la reintenta
// ante fallas de serialización (40001) o deadlock (40P01).
type TxRunner struct {
	pool   *pgxpool.Pool
	policy retryPolicy
	log    zerolog.Logger
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, maxAttempts int, backoff time.Duration, log zerolog.Logger) *TxRunner {
	return &TxRunner{
		pool:   pool,
		policy: retryPolicy{maxAttempts: maxAttempts, backoff: backoff},
		log:    log,
	}
}

// Repos repositorios sobre el pool, fuera de toda transacción.
func (r *TxRunner) Repos() engine.Repos { return NewRepos(r.pool) }

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos engine.Repos) error) error {
	ctx, span := tracer.Start(ctx, "transaction",
		trace.WithAttributes(attribute.String("tx.isolation", string(pgx.Serializable))))
	defer span.End()

	exhausted, err := r.policy.do(ctx, func(attempt int) error {
		span.SetAttributes(attribute.Int("tx.attempt", attempt))
		err := r.runOnce(ctx, fn)
		if err != nil && isRetryable(err) {
			r.log.Debug().Err(err).Int("attempt", attempt).Msg("conflicto de serialización, reintentando")
		}
		return err
	})
	if exhausted {
		r.log.Warn().Err(err).Int("attempts", r.policy.maxAttempts).Msg("reintentos agotados")
		err = fmt.Errorf("%w: %v", domain.ErrConcurrentConflict, err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(ctx context.Context, repos engine.Repos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable, AccessMode: pgx.ReadWrite})
	if err != nil {
		return classify("begin transaction", err)
	}
	// Rollback con contexto propio para que complete aunque ctx se haya cancelado
	defer func() { _ = tx.Rollback(context.Background()) }()

	if err := fn(ctx, NewRepos(tx)); err != nil {
		if errors.Is(err, domain.ErrUnavailable) || isRetryable(err) {
			return err
		}
		if isUnavailable(err) {
			return classify("transaction", err)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isRetryable(err) {
			return err
		}
		return classify("commit transaction", err)
	}
	return nil
}

// NewRepos repositorios atados a q (pool o tx).
func NewRepos(q Querier) engine.Repos {
	return engine.Repos{
		Products:     NewProductRepository(q),
		Movements:    NewStockMovementRepository(q),
		Sales:        NewSaleRepository(q),
		Supplies:     NewSupplyRepository(q),
		Partners:     NewPartnerRepository(q),
		Transactions: NewTransactionRepository(q),
		Invoices:     NewInvoiceRepository(q),
	}
}
