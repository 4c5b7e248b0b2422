package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMaterialRequest body para POST /api/inventory/materials.
// InitialQuantity se registra en el libro como compra para que el snapshot cuadre con los movimientos.
type CreateMaterialRequest struct {
	Name            string          `json:"name" validate:"required,max=150"`
	Category        string          `json:"category" validate:"max=80"`
	Unit            string          `json:"unit" validate:"required,max=20"`
	AlertThreshold  decimal.Decimal `json:"alert_threshold" validate:"gte=0"`
	CostPrice       decimal.Decimal `json:"cost_price" validate:"gte=0"`
	InitialQuantity decimal.Decimal `json:"initial_quantity" validate:"gte=0"`
	ExpiryDate      *time.Time      `json:"expiry_date,omitempty"`
}

// MaterialFilterQuery filtros de GET /api/inventory/materials.
type MaterialFilterQuery struct {
	Status   string `query:"status" validate:"omitempty,oneof=in_stock low_stock out_of_stock discontinued"`
	Category string `query:"category"`
	Search   string `query:"search"`
	LowStock bool   `query:"low_stock"`
	PageRequest
}

// MaterialResponse insumo con su snapshot.
type MaterialResponse struct {
	ID             int64           `json:"id"`
	BranchID       int64           `json:"branch_id"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Unit           string          `json:"unit"`
	Quantity       decimal.Decimal `json:"quantity"`
	AlertThreshold decimal.Decimal `json:"alert_threshold"`
	CostPrice      decimal.Decimal `json:"cost_price"`
	AverageCost    decimal.Decimal `json:"average_cost"`
	ExpiryDate     *time.Time      `json:"expiry_date,omitempty"`
	Status         string          `json:"status"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// RegisterMovementRequest body para POST /api/inventory/movements.
// Quantity es la magnitud; el signo lo decide el tipo (purchase suma, waste y transfer restan).
type RegisterMovementRequest struct {
	ItemID   int64            `json:"item_id" validate:"required,gt=0"`
	Type     string           `json:"type" validate:"required,oneof=purchase waste transfer"`
	Quantity decimal.Decimal  `json:"quantity" validate:"gt=0"`
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
	Note     string           `json:"note" validate:"max=500"`
}

// MovementFilterQuery filtros de GET /api/inventory/movements.
type MovementFilterQuery struct {
	ItemID int64  `query:"item_id"`
	Type   string `query:"type"`
	From   string `query:"from"` // YYYY-MM-DD
	To     string `query:"to"`   // YYYY-MM-DD, inclusivo
	PageRequest
}

// TransactionResponse entrada del libro.
type TransactionResponse struct {
	ID            int64           `json:"id"`
	BatchID       string          `json:"batch_id"`
	Type          string          `json:"type"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   int64           `json:"reference_id"`
	ItemID        int64           `json:"item_id"`
	BranchID      int64           `json:"branch_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          string          `json:"unit"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	CreatedBy     int64           `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	Note          string          `json:"note,omitempty"`
}

// PostedMovementResponse movimiento registrado más el snapshot resultante.
type PostedMovementResponse struct {
	Transaction       TransactionResponse `json:"transaction"`
	RemainingQuantity decimal.Decimal     `json:"remaining_quantity"`
	LowStock          bool                `json:"low_stock"`
}
