package inventory

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
)

// CSVHeader columnas del CSV del reporte diario, en orden fijo.
var CSVHeader = []string{
	"item_name", "category", "opening", "received", "consumed", "waste",
	"adjusted", "closing", "unit", "unit_cost", "total_value", "status",
}

// ReportCSV serializa las filas del reporte. Las cantidades van con su precisión completa.
func ReportCSV(report *entity.DailyStockReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(CSVHeader); err != nil {
		return nil, fmt.Errorf("csv: encabezado: %w", err)
	}
	for _, it := range report.Items {
		record := []string{
			it.ItemName,
			it.Category,
			it.Opening.String(),
			it.Received.String(),
			it.Consumed.String(),
			it.Waste.String(),
			it.Adjusted.String(),
			it.Closing.String(),
			it.Unit,
			it.UnitCost.StringFixed(2),
			it.TotalValue.StringFixed(2),
			it.Status,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("csv: fila %d: %w", it.ItemID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	return buf.Bytes(), nil
}
