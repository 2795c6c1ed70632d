package postgres

import (
	"context"
	"time"
)

// retryPolicy reintentos ante conflictos de serialización o deadlock.
type retryPolicy struct {
	maxAttempts int
	backoff     time.Duration
}

// do ejecuta op hasta que no devuelva un error reintentable o se agoten los intentos.
// Devuelve si el motivo final fue el agotamiento y el último error.
func (p retryPolicy) do(ctx context.Context, op func(attempt int) error) (exhausted bool, err error) {
	attempts := p.maxAttempts
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 1; attempt <= attempts; attempt++ {
		err = op(attempt)
		if err == nil || !isRetryable(err) {
			return false, err
		}
		if attempt == attempts {
			break
		}
		// Espera lineal: 1x, 2x, 3x... el backoff configurado
		wait := p.backoff * time.Duration(attempt)
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(wait):
		}
	}
	return true, err
}
