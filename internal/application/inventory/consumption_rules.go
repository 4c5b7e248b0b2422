package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-insumos/internal/application/dto"
	"github.com/jhoicas/Inventario-insumos/internal/domain"
	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
	"github.com/jhoicas/Inventario-insumos/internal/domain/inventory"
	"github.com/jhoicas/Inventario-insumos/internal/domain/repository"
)

// ConsumptionResolver resuelve qué insumos consume la venta de un producto:
// reglas activas, o receta legada si no hay reglas.
type ConsumptionResolver struct {
	rules   repository.ConsumptionRuleRepository
	recipes repository.LegacyRecipeRepository
}

// NewConsumptionResolver construye el resolvedor sobre los repositorios dados (pool o tx).
func NewConsumptionResolver(rules repository.ConsumptionRuleRepository, recipes repository.LegacyRecipeRepository) *ConsumptionResolver {
	return &ConsumptionResolver{rules: rules, recipes: recipes}
}

// Resolve devuelve el resultado etiquetado: Resolved, ResolvedLegacy o NoRuleConfigured.
// La receta legada solo se consulta cuando el producto no tiene reglas activas.
func (r *ConsumptionResolver) Resolve(ctx context.Context, productID int64, soldQty decimal.Decimal, selected map[string]string) (inventory.Resolution, error) {
	rules, err := r.rules.ListActiveByProduct(ctx, productID)
	if err != nil {
		return inventory.Resolution{}, fmt.Errorf("reglas del producto %d: %w", productID, err)
	}
	var recipe *entity.LegacyRecipe
	if len(rules) == 0 {
		recipe, err = r.recipes.GetByProduct(ctx, productID)
		if err != nil {
			return inventory.Resolution{}, fmt.Errorf("receta del producto %d: %w", productID, err)
		}
	}
	return inventory.ResolveConsumption(productID, soldQty, selected, rules, recipe), nil
}

// ConsumptionRuleUseCase administra las reglas de consumo.
type ConsumptionRuleUseCase struct {
	repos Repositories
}

// NewConsumptionRuleUseCase construye el caso de uso.
func NewConsumptionRuleUseCase(repos Repositories) *ConsumptionRuleUseCase {
	return &ConsumptionRuleUseCase{repos: repos}
}

// List devuelve reglas filtradas por producto y/o insumo.
func (uc *ConsumptionRuleUseCase) List(ctx context.Context, productID, materialID *int64) ([]dto.RuleResponse, error) {
	rules, err := uc.repos.Rules.List(ctx, repository.RuleFilter{ProductID: productID, MaterialID: materialID})
	if err != nil {
		return nil, err
	}
	out := make([]dto.RuleResponse, 0, len(rules))
	for _, r := range rules {
		out = append(out, toRuleResponse(r))
	}
	return out, nil
}

// Create valida y crea una regla. Sin producto o insumo se rechaza antes de escribir.
// La unidad por defecto es la del insumo.
func (uc *ConsumptionRuleUseCase) Create(ctx context.Context, userID int64, in dto.CreateConsumptionRuleRequest) (*dto.RuleResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	material, err := uc.repos.Items.GetByID(ctx, in.MaterialID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, fmt.Errorf("insumo %d: %w", in.MaterialID, domain.ErrNotFound)
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = material.Unit
	}
	now := time.Now()
	rule := &entity.ConsumptionRule{
		ProductID:      in.ProductID,
		MaterialID:     in.MaterialID,
		Quantity:       in.Quantity,
		Unit:           unit,
		WasteFactor:    in.WasteFactor,
		ConditionType:  strings.TrimSpace(in.ConditionType),
		ConditionValue: strings.TrimSpace(in.ConditionValue),
		IsActive:       true,
		Notes:          in.Notes,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repos.Rules.Create(ctx, rule); err != nil {
		return nil, err
	}
	out := toRuleResponse(rule)
	return &out, nil
}

// Deactivate desactiva una regla sin borrarla.
func (uc *ConsumptionRuleUseCase) Deactivate(ctx context.Context, id int64) error {
	rule, err := uc.repos.Rules.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rule == nil {
		return domain.ErrNotFound
	}
	if !rule.IsActive {
		return nil
	}
	return uc.repos.Rules.SetActive(ctx, id, false)
}

// Preview resuelve el consumo de un producto sin escribir nada.
func (uc *ConsumptionRuleUseCase) Preview(ctx context.Context, productID int64, qty decimal.Decimal, selected map[string]string) (*dto.ResolutionResponse, error) {
	if productID <= 0 || !qty.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	res, err := NewConsumptionResolver(uc.repos.Rules, uc.repos.Recipes).Resolve(ctx, productID, qty, selected)
	if err != nil {
		return nil, err
	}
	out := toResolutionResponse(res)
	out.ProductID = productID
	return &out, nil
}
