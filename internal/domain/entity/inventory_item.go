package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un insumo (materia prima).
const (
	ItemStatusInStock      = "in_stock"
	ItemStatusLowStock     = "low_stock"
	ItemStatusOutOfStock   = "out_of_stock"
	ItemStatusDiscontinued = "discontinued"
)

// InventoryItem representa un insumo de una sucursal con su cantidad actual (snapshot).
// Quantity es un caché del libro de movimientos: solo lo modifica el ledger y puede quedar negativa.
type InventoryItem struct {
	ID             int64
	BranchID       int64
	Name           string
	Category       string
	Unit           string          // g, kg, ml, l, unidad
	Quantity       decimal.Decimal // snapshot actual, sin límite inferior
	AlertThreshold decimal.Decimal
	CostPrice      decimal.Decimal // costo de referencia del proveedor
	AverageCost    decimal.Decimal // costo promedio ponderado (inicia en CostPrice)
	ExpiryDate     *time.Time
	Status         string
	Version        int64 // se incrementa con cada delta aplicado
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UnitCost devuelve el costo a usar para valorizar el insumo: promedio ponderado si existe, si no el de referencia.
func (i *InventoryItem) UnitCost() decimal.Decimal {
	if i.AverageCost.GreaterThan(decimal.Zero) {
		return i.AverageCost
	}
	return i.CostPrice
}

// IsLow indica si la cantidad actual está en o por debajo del umbral de alerta.
func (i *InventoryItem) IsLow() bool {
	return i.Quantity.LessThanOrEqual(i.AlertThreshold)
}

// StockStatusFor clasifica el estado del snapshot tras aplicar un delta.
// Un insumo descontinuado conserva su estado.
func StockStatusFor(current string, quantity, threshold decimal.Decimal) string {
	if current == ItemStatusDiscontinued {
		return current
	}
	switch {
	case quantity.LessThanOrEqual(decimal.Zero):
		return ItemStatusOutOfStock
	case quantity.LessThanOrEqual(threshold):
		return ItemStatusLowStock
	default:
		return ItemStatusInStock
	}
}

// LowStockEvent se emite al colaborador de notificaciones cuando una deducción deja el insumo bajo el umbral.
type LowStockEvent struct {
	MaterialID        int64           `json:"materialId"`
	BranchID          int64           `json:"branchId"`
	Name              string          `json:"name"`
	RemainingQuantity decimal.Decimal `json:"remainingQuantity"`
	Unit              string          `json:"unit"`
}
