package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplyStatusCompleted estado de un aprovisionamiento aplicado.
const SupplyStatusCompleted = "COMPLETED"

// Supply entrega de un proveedor. Sus efectos se aplican una sola vez al confirmarse.
type Supply struct {
	ID           string
	Date         time.Time
	SupplierID   string
	SupplierName string
	TotalCost    decimal.Decimal
	Status       string
	OnCredit     bool
	Items        []SupplyItem
	PerformedBy  string
}

// SupplyItem línea de aprovisionamiento.
type SupplyItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	BuyingPrice decimal.Decimal `json:"buying_price"`
}
