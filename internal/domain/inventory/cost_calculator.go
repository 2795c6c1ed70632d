package inventory

import "github.com/shopspring/decimal"

// CostScale decimales con los que se guarda el costo promedio.
const CostScale int32 = 2

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
//
// Usa siempre los valores previos a la actualización. Un stock actual negativo (sobreventa)
// no pondera: se toma como cero. El resultado se redondea a CostScale decimales, mitad lejos de cero.
func CostCalculator(stockActual int64, costoActual decimal.Decimal, cantEntrada int64, costoEntrada decimal.Decimal) decimal.Decimal {
	if stockActual < 0 {
		stockActual = 0
	}
	sum := stockActual + cantEntrada
	if sum <= 0 {
		return costoEntrada.Round(CostScale)
	}
	num := decimal.NewFromInt(stockActual).Mul(costoActual).
		Add(decimal.NewFromInt(cantEntrada).Mul(costoEntrada))
	return num.DivRound(decimal.NewFromInt(sum), CostScale+4).Round(CostScale)
}
