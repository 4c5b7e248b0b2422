package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un ajuste manual.
const (
	AdjustmentPending  = "pending"
	AdjustmentApproved = "approved"
	AdjustmentRejected = "rejected"
)

// InventoryAdjustment lote de correcciones manuales. Solo al aprobarse se llevan al libro.
type InventoryAdjustment struct {
	ID           int64
	BranchID     int64
	Reason       string
	Status       string
	CreatedBy    int64
	ApprovedBy   *int64
	StockCountID *int64
	BatchID      string // lote de transacciones generado al aprobar
	Notes        string
	CreatedAt    time.Time
	ReviewedAt   *time.Time
	Items        []InventoryAdjustmentItem
}

// InventoryAdjustmentItem delta con signo sobre un insumo.
type InventoryAdjustmentItem struct {
	ID           int64
	AdjustmentID int64
	ItemID       int64
	Quantity     decimal.Decimal
	UnitCost     decimal.Decimal
	Note         string
}
