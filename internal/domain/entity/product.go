package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa una referencia del catálogo de repuestos.
// Quantity y CostPrice sólo los modifican los motores de aprovisionamiento y venta.
type Product struct {
	ID              string
	Name            string
	SKU             string // código único asignado por la tienda
	Category        string
	Price           decimal.Decimal  // precio de venta
	CostPrice       *decimal.Decimal // costo promedio ponderado; nil hasta la primera recepción
	Quantity        int64            // puede quedar negativo (ver política de sobreventa)
	InitialQuantity int64            // existencia declarada al crear el producto
	MinStock        int64            // umbral de reposición, sólo informativo
	ImageURL        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Cost devuelve el costo promedio o cero si todavía no hubo recepciones.
func (p *Product) Cost() decimal.Decimal {
	if p.CostPrice == nil {
		return decimal.Zero
	}
	return *p.CostPrice
}

// IsLowStock indica si la existencia alcanzó el umbral de reposición.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.MinStock
}
