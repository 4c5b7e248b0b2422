package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// GenerateReportRequest body para POST /api/inventory/reports.
type GenerateReportRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// ReportItemResponse fila del reporte diario.
type ReportItemResponse struct {
	ItemID     int64           `json:"item_id"`
	ItemName   string          `json:"item_name"`
	Category   string          `json:"category"`
	Unit       string          `json:"unit"`
	Opening    decimal.Decimal `json:"opening"`
	Received   decimal.Decimal `json:"received"`
	Consumed   decimal.Decimal `json:"consumed"`
	Waste      decimal.Decimal `json:"waste"`
	Adjusted   decimal.Decimal `json:"adjusted"`
	Closing    decimal.Decimal `json:"closing"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	TotalValue decimal.Decimal `json:"total_value"`
	Status     string          `json:"status"`
}

// ReportResponse reporte diario de existencias.
type ReportResponse struct {
	ID               int64                `json:"id"`
	BranchID         int64                `json:"branch_id"`
	ReportDate       string               `json:"report_date"`
	TotalItems       int                  `json:"total_items"`
	TotalValue       decimal.Decimal      `json:"total_value"`
	TotalConsumption decimal.Decimal      `json:"total_consumption"`
	TotalWaste       decimal.Decimal      `json:"total_waste"`
	WastePercentage  decimal.Decimal      `json:"waste_percentage"`
	LowStockCount    int                  `json:"low_stock_count"`
	OutOfStockCount  int                  `json:"out_of_stock_count"`
	GeneratedBy      int64                `json:"generated_by"`
	GeneratedAt      time.Time            `json:"generated_at"`
	Created          bool                 `json:"created"` // false si se devolvió un reporte ya existente
	Items            []ReportItemResponse `json:"items"`
}
