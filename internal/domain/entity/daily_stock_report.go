package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Clasificación de cada línea del reporte diario.
const (
	ReportStatusNormal       = "normal"
	ReportStatusLowStock     = "low_stock"
	ReportStatusOutOfStock   = "out_of_stock"
	ReportStatusExpiringSoon = "expiring_soon"
)

// DailyStockReport reporte de existencias de una sucursal para un día calendario.
// Se genera una sola vez por (sucursal, fecha) y queda inmutable.
type DailyStockReport struct {
	ID               int64
	BranchID         int64
	ReportDate       time.Time
	TotalItems       int
	TotalValue       decimal.Decimal
	TotalConsumption decimal.Decimal
	TotalWaste       decimal.Decimal
	WastePercentage  decimal.Decimal
	LowStockCount    int
	OutOfStockCount  int
	GeneratedBy      int64
	GeneratedAt      time.Time
	Items            []DailyStockReportItem
}

// DailyStockReportItem una fila por insumo con las seis columnas de cantidad.
type DailyStockReportItem struct {
	ID         int64
	ReportID   int64
	ItemID     int64
	ItemName   string
	Category   string
	Unit       string
	Opening    decimal.Decimal
	Received   decimal.Decimal
	Consumed   decimal.Decimal
	Waste      decimal.Decimal
	Adjusted   decimal.Decimal
	Closing    decimal.Decimal
	UnitCost   decimal.Decimal
	TotalValue decimal.Decimal
	Status     string
}
