package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ConsumptionRule define cuánto de un insumo consume la venta de una unidad de producto.
// WasteFactor es un recargo fraccional (0.05 = 5% adicional como merma).
// ConditionType/ConditionValue limitan la regla a una variante (ej. size = large).
type ConsumptionRule struct {
	ID             int64
	ProductID      int64
	MaterialID     int64
	Quantity       decimal.Decimal
	Unit           string
	WasteFactor    decimal.Decimal
	ConditionType  string
	ConditionValue string
	IsActive       bool
	Notes          string
	CreatedBy      int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasCondition indica si la regla aplica solo a ciertas variantes.
func (r *ConsumptionRule) HasCondition() bool {
	return strings.TrimSpace(r.ConditionValue) != ""
}

// Matches indica si la regla aplica a una línea con las opciones seleccionadas.
// Sin dimensión, basta con que algún valor seleccionado coincida.
func (r *ConsumptionRule) Matches(selected map[string]string) bool {
	if !r.HasCondition() {
		return true
	}
	want := strings.TrimSpace(r.ConditionValue)
	if dim := strings.TrimSpace(r.ConditionType); dim != "" {
		for k, v := range selected {
			if strings.EqualFold(strings.TrimSpace(k), dim) && strings.EqualFold(strings.TrimSpace(v), want) {
				return true
			}
		}
		return false
	}
	for _, v := range selected {
		if strings.EqualFold(strings.TrimSpace(v), want) {
			return true
		}
	}
	return false
}

// LegacyRecipe es la receta previa a las reglas de consumo: un insumo por producto, sin merma.
type LegacyRecipe struct {
	ID         int64
	ProductID  int64
	MaterialID int64
	Amount     decimal.Decimal
	Unit       string
}
