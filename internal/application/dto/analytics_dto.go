package dto

import "github.com/shopspring/decimal"

// ── Query parameters ──────────────────────────────────────────────────────────

// ProfitabilityRequest parámetros para GET /api/reports/profitability.
type ProfitabilityRequest struct {
	StartDate string `query:"start_date"` // YYYY-MM-DD; por defecto primer día del mes actual
	EndDate   string `query:"end_date"`   // YYYY-MM-DD; por defecto hoy
}

// ── Rentabilidad ──────────────────────────────────────────────────────────────

// PeriodDTO rango de fechas del reporte.
type PeriodDTO struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ProductProfitDTO margen por producto.
type ProductProfitDTO struct {
	Rank             int             `json:"rank"` // 1 = mayor utilidad
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	UnitsSold        int64           `json:"units_sold"`
	Revenue          decimal.Decimal `json:"revenue"`
	Cost             decimal.Decimal `json:"cost"`
	Profit           decimal.Decimal `json:"profit"`      // Revenue - Cost
	MarginPct        decimal.Decimal `json:"margin_pct"`  // Profit / Revenue * 100
	RevenuePct       decimal.Decimal `json:"revenue_pct"` // participación % en ingresos totales
	CumulativeRevPct decimal.Decimal `json:"cumulative_revenue_pct"`
	IsTopPareto      bool            `json:"is_top_pareto"` // dentro del primer 80% de ingresos
}

// ProfitabilityReportDTO respuesta de GET /api/reports/profitability.
type ProfitabilityReportDTO struct {
	Period       PeriodDTO          `json:"period"`
	SalesCount   int                `json:"sales_count"`
	TotalRevenue decimal.Decimal    `json:"total_revenue"`
	TotalCost    decimal.Decimal    `json:"total_cost"`
	TotalProfit  decimal.Decimal    `json:"total_profit"`
	MarginPct    decimal.Decimal    `json:"margin_pct"`
	Expenses     decimal.Decimal    `json:"approved_expenses"`
	NetProfit    decimal.Decimal    `json:"net_profit"` // TotalProfit - Expenses
	Products     []ProductProfitDTO `json:"products"`
}

// ── Dashboard ─────────────────────────────────────────────────────────────────

// DashboardSummaryDTO respuesta de GET /api/reports/dashboard.
// KPIs del día y del mes en curso, ingresos de los últimos 7 días y alertas de stock.
type DashboardSummaryDTO struct {
	// Día actual (00:00 – 23:59)
	TodaySales  decimal.Decimal `json:"today_sales"`
	TodayMargin decimal.Decimal `json:"today_margin"` // ingresos - costo congelado
	TodayCount  int             `json:"today_count"`

	// Mes en curso (día 1 – hoy)
	MonthlySales  decimal.Decimal `json:"monthly_sales"`
	MonthlyMargin decimal.Decimal `json:"monthly_margin"`
	MonthlyCount  int             `json:"monthly_count"`

	Last7Days []DailyRevenueDTO `json:"last_7_days"` // del más antiguo a hoy, días sin ventas en cero
	TopSKUs   []TopSKUDTO       `json:"top_skus"`    // top 5 del mes por ingresos

	LowStockCount int `json:"low_stock_count"`
	ProductsCount int `json:"products_count"`

	RecentSales []SaleResponse `json:"recent_sales"`
	DateLabel   string         `json:"date_label"` // ej: "Octubre 2026"
}

// DailyRevenueDTO ingresos de un día.
type DailyRevenueDTO struct {
	Date   string          `json:"date"` // YYYY-MM-DD
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

// TopSKUDTO resumen de un producto para el widget del dashboard.
type TopSKUDTO struct {
	ProductID        string          `json:"product_id"`
	SKU              string          `json:"sku"`
	ProductName      string          `json:"product_name"`
	QuantitySold     int64           `json:"quantity_sold"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	MarginPercentage decimal.Decimal `json:"margin_percentage"` // (revenue - costo) / revenue * 100
}

// ── Conciliación ──────────────────────────────────────────────────────────────

// StockDriftDTO producto cuya existencia no cuadra con su libro de stock.
type StockDriftDTO struct {
	ProductID       string `json:"product_id"`
	ProductName     string `json:"product_name"`
	Quantity        int64  `json:"quantity"`
	InitialQuantity int64  `json:"initial_quantity"`
	NetMovements    int64  `json:"net_movements"`
	Expected        int64  `json:"expected"` // InitialQuantity + NetMovements
}

// BalanceDriftDTO socio cuyo saldo no cuadra con sus asientos.
type BalanceDriftDTO struct {
	PartnerID   string          `json:"partner_id"`
	PartnerName string          `json:"partner_name"`
	Balance     decimal.Decimal `json:"balance"`
	Expected    decimal.Decimal `json:"expected"` // suma de asientos
}

// ReconcileReportDTO resultado de GET /api/reports/reconcile.
type ReconcileReportDTO struct {
	ProductsChecked int               `json:"products_checked"`
	PartnersChecked int               `json:"partners_checked"`
	StockDrifts     []StockDriftDTO   `json:"stock_drifts"`
	BalanceDrifts   []BalanceDriftDTO `json:"balance_drifts"`
}

// Consistent indica que no hay diferencias.
func (r *ReconcileReportDTO) Consistent() bool {
	return len(r.StockDrifts) == 0 && len(r.BalanceDrifts) == 0
}
