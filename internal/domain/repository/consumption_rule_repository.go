package repository

import (
	"context"

	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
)

// RuleFilter filtros para listar reglas de consumo; nil = sin filtro.
type RuleFilter struct {
	ProductID  *int64
	MaterialID *int64
	ActiveOnly bool
}

// ConsumptionRuleRepository puerto de persistencia de reglas de consumo.
type ConsumptionRuleRepository interface {
	Create(ctx context.Context, rule *entity.ConsumptionRule) error
	GetByID(ctx context.Context, id int64) (*entity.ConsumptionRule, error)
	List(ctx context.Context, filter RuleFilter) ([]*entity.ConsumptionRule, error)
	ListActiveByProduct(ctx context.Context, productID int64) ([]*entity.ConsumptionRule, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

// LegacyRecipeRepository puerto de lectura de recetas legadas (una por producto).
type LegacyRecipeRepository interface {
	GetByProduct(ctx context.Context, productID int64) (*entity.LegacyRecipe, error)
}
