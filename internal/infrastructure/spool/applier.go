package spool

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-repuestos/internal/application/engine"
	"github.com/jhoicas/pos-repuestos/internal/domain"
)

var _ engine.CommutativeDelta = (*QueueingApplier)(nil)

// QueueingApplier decora el aplicador principal: si el almacenamiento no responde, el lote
// se guarda en la cola local y la venta se da por confirmada.
type QueueingApplier struct {
	inner engine.CommutativeDelta
	spool *Spool
	log   zerolog.Logger
}

// NewQueueingApplier construye el decorador.
func NewQueueingApplier(inner engine.CommutativeDelta, spool *Spool, log zerolog.Logger) *QueueingApplier {
	return &QueueingApplier{inner: inner, spool: spool, log: log}
}

// Apply intenta aplicar el lote; sin conexión lo encola y devuelve engine.Queued.
func (a *QueueingApplier) Apply(ctx context.Context, b *engine.Batch) (engine.Outcome, error) {
	outcome, err := a.inner.Apply(ctx, b)
	if err == nil || !errors.Is(err, domain.ErrUnavailable) {
		return outcome, err
	}
	if qErr := a.spool.Enqueue(ctx, b); qErr != nil {
		return 0, errors.Join(err, qErr)
	}
	a.log.Warn().Err(err).Str("batch_id", b.ID).Msg("almacenamiento no disponible, lote encolado")
	return engine.Queued, nil
}

// Replayer reaplica los lotes encolados en orden de llegada.
type Replayer struct {
	spool   *Spool
	applier engine.CommutativeDelta
	log     zerolog.Logger

	// AfterApply se invoca tras aplicar cada lote (p. ej. asentar ventas a crédito).
	// Su error se registra pero no revierte el lote.
	AfterApply func(ctx context.Context, b *engine.Batch) error
}

// NewReplayer construye el reproductor sobre el aplicador principal (sin decorar).
func NewReplayer(spool *Spool, applier engine.CommutativeDelta, log zerolog.Logger) *Replayer {
	return &Replayer{spool: spool, applier: applier, log: log}
}

// DrainResult resumen de una pasada.
type DrainResult struct {
	Applied int `json:"applied"`
	Failed  int `json:"failed"`
	Pending int `json:"pending"`
}

// Drain aplica los pendientes en orden. Se detiene al primer error de conectividad; un lote que
// falla por otro motivo (producto inexistente, sobreventa) se marca FAILED y se continúa.
func (r *Replayer) Drain(ctx context.Context) (DrainResult, error) {
	var res DrainResult
	batches, err := r.spool.Pending(ctx, 0)
	if err != nil {
		return res, err
	}
	for i, b := range batches {
		if err := ctx.Err(); err != nil {
			res.Pending = len(batches) - i
			return res, err
		}
		_, err := r.applier.Apply(ctx, b)
		switch {
		case err == nil:
			if err := r.spool.MarkApplied(ctx, b.ID); err != nil {
				return res, err
			}
			res.Applied++
			if r.AfterApply != nil {
				if hookErr := r.AfterApply(ctx, b); hookErr != nil {
					r.log.Warn().Err(hookErr).Str("batch_id", b.ID).Msg("lote aplicado con error posterior")
				}
			}
		case errors.Is(err, domain.ErrUnavailable):
			res.Pending = len(batches) - i
			return res, nil
		default:
			r.log.Error().Err(err).Str("batch_id", b.ID).Msg("lote rechazado, marcado como fallido")
			if err := r.spool.MarkFailed(ctx, b.ID, err); err != nil {
				return res, err
			}
			res.Failed++
		}
	}
	return res, nil
}

// Run drena la cola cada interval hasta que ctx se cancele.
func (r *Replayer) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res, err := r.Drain(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				r.log.Error().Err(err).Msg("error drenando la cola local")
				continue
			}
			if res.Applied > 0 || res.Failed > 0 {
				r.log.Info().
					Int("applied", res.Applied).
					Int("failed", res.Failed).
					Int("pending", res.Pending).
					Msg("cola local drenada")
			}
		}
	}
}
