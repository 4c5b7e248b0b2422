package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
)

// ComputeVariance completa varianza, porcentaje y costo de una línea de conteo.
// Sin cantidad contada la línea queda con varianza cero.
// El porcentaje es relativo a lo esperado; con esperado cero se informa ±100 según el signo.
func ComputeVariance(line *entity.StockCountItem) {
	if line.Actual == nil {
		line.Variance = decimal.Zero
		line.VariancePercentage = decimal.Zero
		line.VarianceCost = decimal.Zero
		return
	}
	line.Variance = line.Actual.Sub(line.Expected)
	switch {
	case !line.Expected.IsZero():
		line.VariancePercentage = line.Variance.Div(line.Expected.Abs()).Mul(hundred).Round(2)
	case line.Variance.IsZero():
		line.VariancePercentage = decimal.Zero
	case line.Variance.IsNegative():
		line.VariancePercentage = hundred.Neg()
	default:
		line.VariancePercentage = hundred
	}
	line.VarianceCost = line.Variance.Mul(line.UnitCost).Round(2)
}
