package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// InitialQuantity es la existencia declarada al alta; después sólo la mueven los motores.
type CreateProductRequest struct {
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	Price           decimal.Decimal `json:"price"`
	InitialQuantity int64           `json:"initial_quantity"`
	MinStock        int64           `json:"min_stock"`
	ImageURL        string          `json:"image_url"`
}

// UpdateProductRequest entrada para actualizar un producto (sin costo ni existencia).
type UpdateProductRequest struct {
	Name     *string          `json:"name"`
	Category *string          `json:"category"`
	Price    *decimal.Decimal `json:"price"`
	MinStock *int64           `json:"min_stock"`
	ImageURL *string          `json:"image_url"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID              string           `json:"id"`
	SKU             string           `json:"sku"`
	Name            string           `json:"name"`
	Category        string           `json:"category"`
	Price           decimal.Decimal  `json:"price"`
	CostPrice       *decimal.Decimal `json:"cost_price"`
	Quantity        int64            `json:"quantity"`
	InitialQuantity int64            `json:"initial_quantity"`
	MinStock        int64            `json:"min_stock"`
	LowStock        bool             `json:"low_stock"`
	ImageURL        string           `json:"image_url,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
