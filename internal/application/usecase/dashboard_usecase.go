package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-repuestos/internal/application/dto"
	"github.com/jhoicas/pos-repuestos/internal/domain/entity"
	"github.com/jhoicas/pos-repuestos/internal/domain/repository"
)

const (
	dashboardTopSKUs     = 5 // productos en el widget del dashboard
	dashboardRecentSales = 5
	dashboardChartDays   = 7
)

// Dashboard resumen del día, del mes en curso y de los últimos 7 días.
//
// Tres lecturas en paralelo:
//  1. ventas desde el inicio del período más antiguo (mes o 7 días) hasta hoy
//  2. últimas ventas, sin importar la fecha
//  3. catálogo: alertas de stock y costo de respaldo para ventas sin foto de costo
func (uc *ReportUseCase) Dashboard(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := endOfDay(todayStart)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	chartStart := todayStart.AddDate(0, 0, -(dashboardChartDays - 1))
	windowStart := monthStart
	if chartStart.Before(windowStart) {
		windowStart = chartStart
	}

	type salesResult struct {
		sales []*entity.Sale
		err   error
	}
	type productsResult struct {
		products []*entity.Product
		err      error
	}
	windowCh := make(chan salesResult, 1)
	recentCh := make(chan salesResult, 1)
	productsCh := make(chan productsResult, 1)

	go func() {
		s, err := uc.reads.Sales.List(ctx, repository.DateRange{From: &windowStart, To: &todayEnd})
		windowCh <- salesResult{s, err}
	}()
	go func() {
		s, err := uc.reads.Sales.List(ctx, repository.DateRange{Page: repository.Page{Limit: dashboardRecentSales}})
		recentCh <- salesResult{s, err}
	}()
	go func() {
		p, err := uc.reads.Products.List(ctx, repository.Page{})
		productsCh <- productsResult{p, err}
	}()

	window := <-windowCh
	recent := <-recentCh
	catalog := <-productsCh

	if window.err != nil {
		return nil, fmt.Errorf("dashboard: ventas del período: %w", window.err)
	}
	if recent.err != nil {
		return nil, fmt.Errorf("dashboard: últimas ventas: %w", recent.err)
	}
	if catalog.err != nil {
		return nil, fmt.Errorf("dashboard: productos: %w", catalog.err)
	}

	products := make(map[string]*entity.Product, len(catalog.products))
	out := &dto.DashboardSummaryDTO{
		ProductsCount: len(catalog.products),
		RecentSales:   make([]dto.SaleResponse, 0, len(recent.sales)),
		DateLabel:     monthLabel(now),
	}
	for _, p := range catalog.products {
		products[p.ID] = p
		if p.IsLowStock() {
			out.LowStockCount++
		}
	}
	for _, s := range recent.sales {
		out.RecentSales = append(out.RecentSales, *toSaleResponse(s))
	}

	// ── Acumulados ─────────────────────────────────────────────────────────────
	days := make([]dto.DailyRevenueDTO, dashboardChartDays)
	dayIndex := make(map[string]int, dashboardChartDays)
	for i := range days {
		key := chartStart.AddDate(0, 0, i).Format(dateLayout)
		days[i] = dto.DailyRevenueDTO{Date: key, Amount: decimal.Zero}
		dayIndex[key] = i
	}
	var todayCost, monthCost decimal.Decimal
	top := make(map[string]*skuAccumulator)

	for _, s := range window.sales {
		if i, ok := dayIndex[s.Date.In(now.Location()).Format(dateLayout)]; ok {
			days[i].Amount = days[i].Amount.Add(s.Total)
			days[i].Count++
		}
		// hoy siempre cae dentro del mes
		if s.Date.Before(monthStart) {
			continue
		}
		inToday := !s.Date.Before(todayStart)

		cost := decimal.Zero
		for _, it := range s.Items {
			lineCost := unitCost(it, products[it.ProductID]).Mul(decimal.NewFromInt(it.Quantity))
			cost = cost.Add(lineCost)

			acc, ok := top[it.ProductID]
			if !ok {
				acc = &skuAccumulator{row: dto.TopSKUDTO{ProductID: it.ProductID, ProductName: it.Name}}
				if p := products[it.ProductID]; p != nil {
					acc.row.SKU = p.SKU
				}
				top[it.ProductID] = acc
			}
			acc.row.QuantitySold += it.Quantity
			acc.row.TotalRevenue = acc.row.TotalRevenue.Add(it.Subtotal())
			acc.cost = acc.cost.Add(lineCost)
		}
		out.MonthlySales = out.MonthlySales.Add(s.Total)
		out.MonthlyCount++
		monthCost = monthCost.Add(cost)
		if inToday {
			out.TodaySales = out.TodaySales.Add(s.Total)
			out.TodayCount++
			todayCost = todayCost.Add(cost)
		}
	}

	out.TodayMargin = out.TodaySales.Sub(todayCost).Round(2)
	out.MonthlyMargin = out.MonthlySales.Sub(monthCost).Round(2)
	out.TodaySales = out.TodaySales.Round(2)
	out.MonthlySales = out.MonthlySales.Round(2)
	for i := range days {
		days[i].Amount = days[i].Amount.Round(2)
	}
	out.Last7Days = days
	out.TopSKUs = rankTopSKUs(top, dashboardTopSKUs)
	return out, nil
}

type skuAccumulator struct {
	row  dto.TopSKUDTO
	cost decimal.Decimal
}

// rankTopSKUs mayor ingreso primero; empate por nombre.
func rankTopSKUs(acc map[string]*skuAccumulator, limit int) []dto.TopSKUDTO {
	rows := make([]dto.TopSKUDTO, 0, len(acc))
	for _, a := range acc {
		r := a.row
		r.MarginPercentage = pct(r.TotalRevenue.Sub(a.cost), r.TotalRevenue)
		r.TotalRevenue = r.TotalRevenue.Round(2)
		rows = append(rows, r)
	}
	slices.SortFunc(rows, func(a, b dto.TopSKUDTO) int {
		if c := b.TotalRevenue.Cmp(a.TotalRevenue); c != 0 {
			return c
		}
		return strings.Compare(a.ProductName, b.ProductName)
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// monthLabel etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
