// Package spool guarda en SQLite los lotes de venta confirmados sin conexión y los reaplica
// en orden de llegada cuando el almacenamiento principal vuelve a responder.
package spool

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jhoicas/pos-repuestos/internal/application/engine"
	"github.com/jhoicas/pos-repuestos/internal/domain"
)

//go:embed schema.sql
var schemaSQL string

// Estados de un lote en la cola.
const (
	StatusPending = "PENDING"
	StatusApplied = "APPLIED"
	StatusFailed  = "FAILED"
)

// Spool cola durable de lotes.
type Spool struct {
	db *sql.DB
}

// Open crea o abre la base SQLite en path, con WAL y esquema aplicado. Es idempotente.
func Open(path string) (*Spool, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("crear directorio de la cola: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("abrir cola: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("conectar cola: %w", err)
	}

	// SQLite admite un solo escritor
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("ejecutar %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("aplicar esquema de la cola: %w", err)
	}
	return &Spool{db: db}, nil
}

// Close cierra la base.
func (s *Spool) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Enqueue guarda el lote como pendiente. Encolar dos veces el mismo ID no lo duplica.
func (s *Spool) Enqueue(ctx context.Context, b *engine.Batch) error {
	payload, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("serializar lote: %w", err)
	}
	now := time.Now().UnixMilli()
	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO batches (id, payload, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		b.ID, string(payload), StatusPending, now, now)
	if err != nil {
		return fmt.Errorf("encolar lote %s: %w", b.ID, err)
	}
	return nil
}

// Pending lotes pendientes en orden de llegada. limit <= 0 devuelve todos.
func (s *Spool) Pending(ctx context.Context, limit int) ([]*engine.Batch, error) {
	q := `SELECT payload FROM batches WHERE status = ? ORDER BY seq`
	args := []any{StatusPending}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("leer pendientes: %w", err)
	}
	defer rows.Close()

	var out []*engine.Batch
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("leer pendiente: %w", err)
		}
		var b engine.Batch
		if err := json.Unmarshal([]byte(payload), &b); err != nil {
			return nil, fmt.Errorf("deserializar lote: %w", err)
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

// MarkApplied marca el lote como aplicado.
func (s *Spool) MarkApplied(ctx context.Context, id string) error {
	return s.mark(ctx, id, StatusApplied, "")
}

// MarkFailed marca el lote como fallido; no se vuelve a intentar de forma automática.
func (s *Spool) MarkFailed(ctx context.Context, id string, reason error) error {
	msg := ""
	if reason != nil {
		msg = reason.Error()
	}
	return s.mark(ctx, id, StatusFailed, msg)
}

// Requeue devuelve un lote fallido a pendiente.
func (s *Spool) Requeue(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE batches SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		StatusPending, time.Now().UnixMilli(), id, StatusFailed)
	if err != nil {
		return fmt.Errorf("reencolar lote %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("reencolar lote %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (s *Spool) mark(ctx context.Context, id, status, lastError string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE batches SET status = ?, attempts = attempts + 1, last_error = ?, updated_at = ? WHERE id = ?`,
		status, lastError, time.Now().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("marcar lote %s como %s: %w", id, status, err)
	}
	return nil
}

// Stats conteo de lotes por estado.
type Stats struct {
	Pending int `json:"pending"`
	Applied int `json:"applied"`
	Failed  int `json:"failed"`
}

// Stats devuelve el conteo por estado.
func (s *Spool) Stats(ctx context.Context) (Stats, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM batches GROUP BY status`)
	if err != nil {
		return Stats{}, fmt.Errorf("contar lotes: %w", err)
	}
	defer rows.Close()

	var st Stats
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return Stats{}, err
		}
		switch status {
		case StatusPending:
			st.Pending = n
		case StatusApplied:
			st.Applied = n
		case StatusFailed:
			st.Failed = n
		}
	}
	return st, rows.Err()
}

// FailedEntry lote fallido con su último error.
type FailedEntry struct {
	ID        string    `json:"id"`
	LastError string    `json:"last_error"`
	Attempts  int       `json:"attempts"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Failed lista los lotes fallidos.
func (s *Spool) Failed(ctx context.Context) ([]FailedEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, last_error, attempts, updated_at FROM batches WHERE status = ? ORDER BY seq`, StatusFailed)
	if err != nil {
		return nil, fmt.Errorf("leer fallidos: %w", err)
	}
	defer rows.Close()

	var out []FailedEntry
	for rows.Next() {
		var e FailedEntry
		var updated int64
		if err := rows.Scan(&e.ID, &e.LastError, &e.Attempts, &updated); err != nil {
			return nil, err
		}
		e.UpdatedAt = time.UnixMilli(updated)
		out = append(out, e)
	}
	return out, rows.Err()
}
