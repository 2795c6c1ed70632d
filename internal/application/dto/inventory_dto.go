package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplyLineRequest línea de un aprovisionamiento.
type SupplyLineRequest struct {
	ProductID   string          `json:"product_id"`
	Quantity    int64           `json:"quantity"`
	BuyingPrice decimal.Decimal `json:"buying_price"`
}

// ReceiveSupplyRequest body para POST /api/supplies.
type ReceiveSupplyRequest struct {
	SupplierID string              `json:"supplier_id"`
	OnCredit   bool                `json:"on_credit"`
	Items      []SupplyLineRequest `json:"items"`
}

// SupplyItemResponse línea aplicada.
type SupplyItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	BuyingPrice decimal.Decimal `json:"buying_price"`
}

// SupplyResponse aprovisionamiento confirmado.
type SupplyResponse struct {
	ID           string               `json:"id"`
	Date         time.Time            `json:"date"`
	SupplierID   string               `json:"supplier_id"`
	SupplierName string               `json:"supplier_name"`
	TotalCost    decimal.Decimal      `json:"total_cost"`
	Status       string               `json:"status"`
	OnCredit     bool                 `json:"on_credit"`
	Items        []SupplyItemResponse `json:"items"`
	PerformedBy  string               `json:"performed_by"`
}

// MovementListRequest filtros de GET /api/movements.
type MovementListRequest struct {
	ProductID string `query:"product_id"`
	Type      string `query:"type"` // IN | OUT
	DateRangeRequest
}

// MovementResponse hecho del libro de stock.
type MovementResponse struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int64     `json:"quantity"`
	Reason      string    `json:"reason"`
	ReferenceID string    `json:"reference_id,omitempty"`
	PerformedBy string    `json:"performed_by"`
}

// LowStockDTO producto en o bajo su umbral de reposición, con sugerencia de pedido.
type LowStockDTO struct {
	ProductID         string          `json:"product_id"`
	SKU               string          `json:"sku"`
	ProductName       string          `json:"product_name"`
	CurrentStock      int64           `json:"current_stock"`
	MinStock          int64           `json:"min_stock"`
	SuggestedOrderQty int64           `json:"suggested_order_qty"` // 1.5 * MinStock - CurrentStock
	UnitCost          decimal.Decimal `json:"unit_cost"`
	EstimatedCost     decimal.Decimal `json:"estimated_order_cost"`
	Priority          int             `json:"priority"` // 1 = más urgente
}
