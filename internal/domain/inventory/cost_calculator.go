package inventory

import "github.com/shopspring/decimal"

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Si el snapshot es cero o negativo no hay existencias que ponderar y el costo pasa a ser el de la entrada.
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	if cantEntrada.LessThanOrEqual(decimal.Zero) {
		return costoActual
	}
	if stockActual.LessThanOrEqual(decimal.Zero) || costoActual.IsZero() {
		return costoEntrada
	}
	sum := stockActual.Add(cantEntrada)
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum).Round(4)
}
