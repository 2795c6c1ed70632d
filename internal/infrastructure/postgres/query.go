package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/pos-repuestos/internal/domain/repository"
)

// getOne devuelve (nil, nil) si no hay filas.
func getOne[T any](ctx context.Context, q Querier, b squirrel.SelectBuilder, op string) (*T, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", op, err)
	}
	var row T
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, classify(op, err)
	}
	return &row, nil
}

func selectAll[T any](ctx context.Context, q Querier, b squirrel.SelectBuilder, op string) ([]T, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", op, err)
	}
	var rows []T
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, classify(op, err)
	}
	return rows, nil
}

func exec(ctx context.Context, q Querier, b squirrel.Sqlizer, op string) (pgconn.CommandTag, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("build %s: %w", op, err)
	}
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return tag, classify(op, err)
	}
	return tag, nil
}

func withPage(b squirrel.SelectBuilder, p repository.Page) squirrel.SelectBuilder {
	if p.Limit > 0 {
		b = b.Limit(uint64(p.Limit))
	}
	if p.Offset > 0 {
		b = b.Offset(uint64(p.Offset))
	}
	return b
}

func withDateRange(b squirrel.SelectBuilder, f repository.DateRange) squirrel.SelectBuilder {
	if f.From != nil {
		b = b.Where(squirrel.GtOrEq{"date": *f.From})
	}
	if f.To != nil {
		b = b.Where(squirrel.LtOrEq{"date": *f.To})
	}
	return withPage(b, f.Page)
}
