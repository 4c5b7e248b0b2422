package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un conteo físico.
const (
	StockCountDraft      = "draft"
	StockCountInProgress = "in_progress"
	StockCountCompleted  = "completed"
	StockCountCancelled  = "cancelled"
)

// StockCount ejercicio de conteo físico contra el snapshot del sistema.
type StockCount struct {
	ID             int64
	BranchID       int64
	Status         string
	Notes          string
	CreatedBy      int64
	CompletedBy    *int64
	VariancePosted bool  // la varianza ya se llevó al libro
	AdjustmentID   *int64 // ajuste generado al postear la varianza
	CreatedAt      time.Time
	StartedAt      *time.Time
	CompletedAt    *time.Time
	Items          []StockCountItem
}

// StockCountItem línea del conteo. Expected es el snapshot al crear el conteo;
// Actual es nil hasta que se registra la cantidad contada.
type StockCountItem struct {
	ID                 int64
	StockCountID       int64
	ItemID             int64
	ItemName           string
	Unit               string
	Expected           decimal.Decimal
	Actual             *decimal.Decimal
	Variance           decimal.Decimal
	VariancePercentage decimal.Decimal
	UnitCost           decimal.Decimal
	VarianceCost       decimal.Decimal
}

// CanTransitionStockCount indica si el conteo puede pasar de from a to.
func CanTransitionStockCount(from, to string) bool {
	switch from {
	case StockCountDraft:
		return to == StockCountInProgress || to == StockCountCancelled
	case StockCountInProgress:
		return to == StockCountCompleted || to == StockCountCancelled
	}
	return false
}
