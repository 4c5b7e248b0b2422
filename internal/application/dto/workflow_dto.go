package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustmentLineRequest línea de un ajuste manual. Quantity con signo.
type AdjustmentLineRequest struct {
	ItemID   int64            `json:"item_id" validate:"required,gt=0"`
	Quantity decimal.Decimal  `json:"quantity" validate:"ne=0"`
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
	Note     string           `json:"note" validate:"max=300"`
}

// CreateAdjustmentRequest body para POST /api/inventory/adjustments.
type CreateAdjustmentRequest struct {
	Reason string                  `json:"reason" validate:"required,max=300"`
	Notes  string                  `json:"notes" validate:"max=1000"`
	Items  []AdjustmentLineRequest `json:"items" validate:"required,min=1,dive"`
}

// ReviewAdjustmentRequest body opcional al aprobar o rechazar.
type ReviewAdjustmentRequest struct {
	Notes string `json:"notes" validate:"max=1000"`
}

// AdjustmentLineResponse línea de ajuste.
type AdjustmentLineResponse struct {
	ItemID   int64           `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Note     string          `json:"note,omitempty"`
}

// AdjustmentResponse ajuste con su estado de aprobación.
type AdjustmentResponse struct {
	ID           int64                    `json:"id"`
	BranchID     int64                    `json:"branch_id"`
	Reason       string                   `json:"reason"`
	Status       string                   `json:"status"`
	CreatedBy    int64                    `json:"created_by"`
	ApprovedBy   *int64                   `json:"approved_by,omitempty"`
	StockCountID *int64                   `json:"stock_count_id,omitempty"`
	BatchID      string                   `json:"batch_id,omitempty"`
	Notes        string                   `json:"notes,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
	ReviewedAt   *time.Time               `json:"reviewed_at,omitempty"`
	Items        []AdjustmentLineResponse `json:"items"`
}

// CreateStockCountRequest body para POST /api/inventory/counts. ItemIDs vacío = todos los insumos de la sucursal.
type CreateStockCountRequest struct {
	ItemIDs []int64 `json:"item_ids" validate:"dive,gt=0"`
	Notes   string  `json:"notes" validate:"max=1000"`
}

// RecordCountRequest body para PUT /api/inventory/counts/:id/items/:itemId.
type RecordCountRequest struct {
	Actual decimal.Decimal `json:"actual" validate:"gte=0"`
}

// StockCountLineResponse línea del conteo.
type StockCountLineResponse struct {
	ItemID             int64            `json:"item_id"`
	ItemName           string           `json:"item_name"`
	Unit               string           `json:"unit"`
	Expected           decimal.Decimal  `json:"expected"`
	Actual             *decimal.Decimal `json:"actual,omitempty"`
	Variance           decimal.Decimal  `json:"variance"`
	VariancePercentage decimal.Decimal  `json:"variance_percentage"`
	UnitCost           decimal.Decimal  `json:"unit_cost"`
	VarianceCost       decimal.Decimal  `json:"variance_cost"`
}

// StockCountResponse conteo físico.
type StockCountResponse struct {
	ID             int64                    `json:"id"`
	BranchID       int64                    `json:"branch_id"`
	Status         string                   `json:"status"`
	Notes          string                   `json:"notes,omitempty"`
	CreatedBy      int64                    `json:"created_by"`
	CompletedBy    *int64                   `json:"completed_by,omitempty"`
	VariancePosted bool                     `json:"variance_posted"`
	AdjustmentID   *int64                   `json:"adjustment_id,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
	StartedAt      *time.Time               `json:"started_at,omitempty"`
	CompletedAt    *time.Time               `json:"completed_at,omitempty"`
	Items          []StockCountLineResponse `json:"items"`
}
