package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
)

// DefaultExpiryWarningDays días antes del vencimiento en que un insumo se marca expiring_soon.
const DefaultExpiryWarningDays = 7

var hundred = decimal.NewFromInt(100)

// DayMovements totales de un insumo para un día, separados por causa.
// Cada delta del libro cae exactamente en una columna, de modo que
// Net() coincide con la suma con signo de las transacciones.
type DayMovements struct {
	Received decimal.Decimal // entradas positivas que no son ajustes
	Consumed decimal.Decimal // |ventas negativas|
	Waste    decimal.Decimal // |mermas negativas|
	Adjusted decimal.Decimal // ajustes con signo más cualquier otra salida (traslados)
}

// Net devuelve received - consumed - waste + adjusted.
func (m DayMovements) Net() decimal.Decimal {
	return m.Received.Sub(m.Consumed).Sub(m.Waste).Add(m.Adjusted)
}

// Classify agrega las transacciones de un insumo en las columnas del reporte.
func Classify(txs []*entity.InventoryTransaction) DayMovements {
	m := DayMovements{
		Received: decimal.Zero,
		Consumed: decimal.Zero,
		Waste:    decimal.Zero,
		Adjusted: decimal.Zero,
	}
	for _, tx := range txs {
		q := tx.Quantity
		switch {
		case tx.Type == entity.TransactionTypeAdjustment:
			m.Adjusted = m.Adjusted.Add(q)
		case q.GreaterThan(decimal.Zero):
			m.Received = m.Received.Add(q)
		case tx.Type == entity.TransactionTypeSale:
			m.Consumed = m.Consumed.Add(q.Abs())
		case tx.Type == entity.TransactionTypeWaste:
			m.Waste = m.Waste.Add(q.Abs())
		default:
			m.Adjusted = m.Adjusted.Add(q)
		}
	}
	return m
}

// SumDeltas suma con signo las cantidades de las transacciones.
func SumDeltas(txs []*entity.InventoryTransaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.Quantity)
	}
	return total
}

// ReconstructItem arma la fila del reporte de un insumo.
// dayTxs son las transacciones del día; laterTxs las registradas después del fin del día,
// que se restan del snapshot para obtener el cierre. opening se despeja:
//
//	opening = closing - (received - consumed - waste + adjusted)
func ReconstructItem(item *entity.InventoryItem, dayTxs, laterTxs []*entity.InventoryTransaction,
	reportDate time.Time, expiryWarningDays int) entity.DailyStockReportItem {
	m := Classify(dayTxs)
	closing := item.Quantity.Sub(SumDeltas(laterTxs))
	opening := closing.Sub(m.Net())
	unitCost := item.UnitCost()

	return entity.DailyStockReportItem{
		ItemID:     item.ID,
		ItemName:   item.Name,
		Category:   item.Category,
		Unit:       item.Unit,
		Opening:    opening,
		Received:   m.Received,
		Consumed:   m.Consumed,
		Waste:      m.Waste,
		Adjusted:   m.Adjusted,
		Closing:    closing,
		UnitCost:   unitCost,
		TotalValue: closing.Mul(unitCost).Round(2),
		Status:     ClassifyReportStatus(closing, item.AlertThreshold, item.ExpiryDate, reportDate, expiryWarningDays),
	}
}

// ClassifyReportStatus: out_of_stock si cierre <= 0, low_stock si <= umbral,
// expiring_soon si vence dentro de warningDays desde la fecha del reporte, normal en otro caso.
func ClassifyReportStatus(closing, threshold decimal.Decimal, expiry *time.Time, reportDate time.Time, warningDays int) string {
	switch {
	case closing.LessThanOrEqual(decimal.Zero):
		return entity.ReportStatusOutOfStock
	case closing.LessThanOrEqual(threshold):
		return entity.ReportStatusLowStock
	case expiry != nil && !expiry.After(reportDate.AddDate(0, 0, warningDays)):
		return entity.ReportStatusExpiringSoon
	}
	return entity.ReportStatusNormal
}

// ReportTotals agregados a nivel sucursal.
type ReportTotals struct {
	TotalValue       decimal.Decimal
	TotalConsumption decimal.Decimal
	TotalWaste       decimal.Decimal
	WastePercentage  decimal.Decimal
	LowStockCount    int
	OutOfStockCount  int
}

// Summarize suma las filas del reporte. WastePercentage = waste/consumed*100 (0 si no hubo consumo).
func Summarize(items []entity.DailyStockReportItem) ReportTotals {
	t := ReportTotals{
		TotalValue:       decimal.Zero,
		TotalConsumption: decimal.Zero,
		TotalWaste:       decimal.Zero,
		WastePercentage:  decimal.Zero,
	}
	for _, it := range items {
		t.TotalValue = t.TotalValue.Add(it.TotalValue)
		t.TotalConsumption = t.TotalConsumption.Add(it.Consumed)
		t.TotalWaste = t.TotalWaste.Add(it.Waste)
		switch it.Status {
		case entity.ReportStatusLowStock:
			t.LowStockCount++
		case entity.ReportStatusOutOfStock:
			t.OutOfStockCount++
		}
	}
	t.WastePercentage = WastePercentage(t.TotalWaste, t.TotalConsumption)
	return t
}

// WastePercentage devuelve waste/consumed*100 redondeado a 2 decimales; 0 si consumed <= 0.
func WastePercentage(waste, consumed decimal.Decimal) decimal.Decimal {
	if consumed.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return waste.Div(consumed).Mul(hundred).Round(2)
}

// DayBounds devuelve [inicio, fin) del día calendario de date en loc.
func DayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	d := date.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
