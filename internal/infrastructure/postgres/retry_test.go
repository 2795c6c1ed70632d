package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-repuestos/internal/domain"
)

func serializationErr() error {
	return &pgconn.PgError{Code: codeSerializationFailure, Message: "could not serialize access"}
}

func TestRetryPolicy_ReintentaHastaExito(t *testing.T) {
	p := retryPolicy{maxAttempts: 5, backoff: time.Millisecond}
	calls := 0

	exhausted, err := p.do(context.Background(), func(int) error {
		calls++
		if calls < 3 {
			return serializationErr()
		}
		return nil
	})
	require.NoError(t, err)
	assert.False(t, exhausted)
	assert.Equal(t, 3, calls)
}

func TestRetryPolicy_Agotado(t *testing.T) {
	p := retryPolicy{maxAttempts: 3, backoff: time.Millisecond}
	calls := 0

	exhausted, err := p.do(context.Background(), func(int) error {
		calls++
		return &pgconn.PgError{Code: codeDeadlockDetected}
	})
	require.Error(t, err)
	assert.True(t, exhausted)
	assert.Equal(t, 3, calls)
}

func TestRetryPolicy_ErrorNoReintentable(t *testing.T) {
	p := retryPolicy{maxAttempts: 5, backoff: time.Millisecond}
	boom := errors.New("boom")
	calls := 0

	exhausted, err := p.do(context.Background(), func(int) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, exhausted)
	assert.Equal(t, 1, calls)
}

func TestRetryPolicy_ContextoCancelado(t *testing.T) {
	p := retryPolicy{maxAttempts: 5, backoff: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exhausted, err := p.do(ctx, func(int) error { return serializationErr() })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, exhausted)
}

func TestClassify(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(errors.New("x")))
	assert.True(t, isRetryable(serializationErr()))
	assert.False(t, isUnavailable(context.Canceled))
	assert.True(t, isUnavailable(&pgconn.ConnectError{}))
	assert.Nil(t, classify("op", nil))
}

func TestClassify_IdentificadorMalformadoEsNoEncontrado(t *testing.T) {
	err := classify("get product", &pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrUnavailable)

	var pgErr *pgconn.PgError
	assert.False(t, errors.As(err, &pgErr), "el error original sólo se conserva como texto")

	other := classify("insert sale", &pgconn.PgError{Code: "23503"})
	assert.NotErrorIs(t, other, domain.ErrNotFound)
}
