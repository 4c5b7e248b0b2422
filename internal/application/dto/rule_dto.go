package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateConsumptionRuleRequest body para POST /api/inventory/rules.
type CreateConsumptionRuleRequest struct {
	ProductID      int64           `json:"product_id" validate:"required,gt=0"`
	MaterialID     int64           `json:"material_id" validate:"required,gt=0"`
	Quantity       decimal.Decimal `json:"quantity" validate:"gt=0"`
	Unit           string          `json:"unit" validate:"max=20"`
	WasteFactor    decimal.Decimal `json:"waste_factor" validate:"gte=0,lte=1"`
	ConditionType  string          `json:"condition_type" validate:"max=50"`
	ConditionValue string          `json:"condition_value" validate:"required_with=ConditionType,max=100"`
	Notes          string          `json:"notes" validate:"max=500"`
}

// RuleResponse regla de consumo.
type RuleResponse struct {
	ID             int64           `json:"id"`
	ProductID      int64           `json:"product_id"`
	MaterialID     int64           `json:"material_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit"`
	WasteFactor    decimal.Decimal `json:"waste_factor"`
	ConditionType  string          `json:"condition_type,omitempty"`
	ConditionValue string          `json:"condition_value,omitempty"`
	IsActive       bool            `json:"is_active"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// DeductionResponse instrucción resultante de resolver el consumo.
type DeductionResponse struct {
	MaterialID int64           `json:"material_id"`
	Type       string          `json:"type"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit"`
	RuleID     int64           `json:"rule_id,omitempty"`
	RecipeID   int64           `json:"recipe_id,omitempty"`
}

// ResolutionResponse vista previa del consumo de un producto.
type ResolutionResponse struct {
	ProductID    int64               `json:"product_id"`
	Outcome      string              `json:"outcome"` // resolved | resolved_legacy | no_rule_configured
	Instructions []DeductionResponse `json:"instructions"`
}

// PreviewConsumptionRequest body para POST /api/inventory/rules/preview.
// Options son los valores elegidos en la venta, por ejemplo {"size": "large"}.
type PreviewConsumptionRequest struct {
	ProductID int64             `json:"product_id" validate:"required,gt=0"`
	Quantity  decimal.Decimal   `json:"quantity" validate:"gt=0"`
	Options   map[string]string `json:"options"`
}
