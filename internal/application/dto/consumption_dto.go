package dto

import "github.com/shopspring/decimal"

// ConsumedMaterialDTO consumo agregado por insumo para una orden.
type ConsumedMaterialDTO struct {
	MaterialID int64           `json:"material_id"`
	Name       string          `json:"name"`
	Unit       string          `json:"unit"`
	Consumed   decimal.Decimal `json:"consumed"` // base descontada como venta
	Waste      decimal.Decimal `json:"waste"`
	Total      decimal.Decimal `json:"total"`
	Remaining  decimal.Decimal `json:"remaining_quantity"`
}

// OrderConsumptionResult resultado de procesar el inventario de una orden.
// SkippedProducts lista los productos sin regla ni receta (no consumen nada).
type OrderConsumptionResult struct {
	OrderID           int64                 `json:"order_id"`
	BatchID           string                `json:"batch_id"`
	ConsumedMaterials []ConsumedMaterialDTO `json:"consumed_materials"`
	SkippedProducts   []int64               `json:"skipped_products"`
}
