package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeIN  = "IN"  // entrada (aprovisionamiento)
	MovementTypeOUT = "OUT" // salida (venta)
)

// StockMovement es un hecho inmutable del libro de stock. Quantity siempre es positiva;
// el signo lo da Type.
type StockMovement struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int64     `json:"quantity"`
	Reason      string    `json:"reason"`
	ReferenceID string    `json:"reference_id,omitempty"` // venta o aprovisionamiento que lo originó
	PerformedBy string    `json:"performed_by"`
}

// SignedQuantity devuelve la cantidad con el signo del tipo de movimiento.
func (m *StockMovement) SignedQuantity() int64 {
	if m.Type == MovementTypeOUT {
		return -m.Quantity
	}
	return m.Quantity
}
