package repository

import "time"

// Page paginación simple. Limit <= 0 significa sin límite.
type Page struct {
	Limit  int
	Offset int
}

// MovementFilter filtros para el historial de stock.
type MovementFilter struct {
	ProductID string
	Type      string
	From      *time.Time
	To        *time.Time
	Page
}

// DateRange filtro por fecha para ventas y aprovisionamientos.
type DateRange struct {
	From *time.Time
	To   *time.Time
	Page
}
