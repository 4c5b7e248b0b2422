package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-insumos/internal/domain"
	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
	"github.com/jhoicas/Inventario-insumos/internal/domain/repository"
)

var (
	_ repository.ConsumptionRuleRepository = (*ConsumptionRuleRepo)(nil)
	_ repository.LegacyRecipeRepository    = (*LegacyRecipeRepo)(nil)
)

const ruleColumns = `id, product_id, material_id, quantity, unit, waste_factor,
	COALESCE(condition_type, ''), COALESCE(condition_value, ''), is_active, COALESCE(notes, ''),
	COALESCE(created_by, 0), created_at, updated_at`

// ConsumptionRuleRepo reglas de consumo sobre PostgreSQL.
type ConsumptionRuleRepo struct {
	q Querier
}

// NewConsumptionRuleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewConsumptionRuleRepository(q Querier) *ConsumptionRuleRepo {
	return &ConsumptionRuleRepo{q: q}
}

func scanRule(row pgx.Row) (*entity.ConsumptionRule, error) {
	var r entity.ConsumptionRule
	err := row.Scan(
		&r.ID, &r.ProductID, &r.MaterialID, &r.Quantity, &r.Unit, &r.WasteFactor,
		&r.ConditionType, &r.ConditionValue, &r.IsActive, &r.Notes, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func nullIfEmpty(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// Create persiste una regla.
func (r *ConsumptionRuleRepo) Create(ctx context.Context, rule *entity.ConsumptionRule) error {
	query := `
		INSERT INTO consumption_rules (product_id, material_id, quantity, unit, waste_factor,
			condition_type, condition_value, is_active, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, 0), $11, $12)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		rule.ProductID, rule.MaterialID, rule.Quantity, rule.Unit, rule.WasteFactor,
		nullIfEmpty(rule.ConditionType), nullIfEmpty(rule.ConditionValue), rule.IsActive,
		nullIfEmpty(rule.Notes), rule.CreatedBy, rule.CreatedAt, rule.UpdatedAt,
	).Scan(&rule.ID)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("create consumption rule: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("create consumption rule: %w", err)
	}
	return nil
}

// GetByID obtiene una regla por ID.
func (r *ConsumptionRuleRepo) GetByID(ctx context.Context, id int64) (*entity.ConsumptionRule, error) {
	rule, err := scanRule(r.q.QueryRow(ctx, `SELECT `+ruleColumns+` FROM consumption_rules WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get consumption rule: %w", err)
	}
	return rule, nil
}

// List lista reglas con filtros opcionales.
func (r *ConsumptionRuleRepo) List(ctx context.Context, f repository.RuleFilter) ([]*entity.ConsumptionRule, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + ruleColumns + ` FROM consumption_rules WHERE TRUE`)
	var args []any
	if f.ProductID != nil {
		args = append(args, *f.ProductID)
		sb.WriteString(" AND product_id = " + placeholder(args))
	}
	if f.MaterialID != nil {
		args = append(args, *f.MaterialID)
		sb.WriteString(" AND material_id = " + placeholder(args))
	}
	if f.ActiveOnly {
		sb.WriteString(" AND is_active")
	}
	sb.WriteString(" ORDER BY product_id, id")
	return r.list(ctx, sb.String(), args...)
}

// ListActiveByProduct reglas activas de un producto, en orden de creación.
func (r *ConsumptionRuleRepo) ListActiveByProduct(ctx context.Context, productID int64) ([]*entity.ConsumptionRule, error) {
	return r.list(ctx, `SELECT `+ruleColumns+` FROM consumption_rules WHERE product_id = $1 AND is_active ORDER BY id`, productID)
}

func (r *ConsumptionRuleRepo) list(ctx context.Context, query string, args ...any) ([]*entity.ConsumptionRule, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list consumption rules: %w", err)
	}
	defer rows.Close()
	var list []*entity.ConsumptionRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consumption rule: %w", err)
		}
		list = append(list, rule)
	}
	return list, rows.Err()
}

// SetActive activa o desactiva una regla.
func (r *ConsumptionRuleRepo) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.q.Exec(ctx, `UPDATE consumption_rules SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set rule active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LegacyRecipeRepo recetas previas a las reglas (tabla product_recipes).
type LegacyRecipeRepo struct {
	q Querier
}

// NewLegacyRecipeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLegacyRecipeRepository(q Querier) *LegacyRecipeRepo {
	return &LegacyRecipeRepo{q: q}
}

// GetByProduct obtiene la receta del producto; nil si no tiene.
func (r *LegacyRecipeRepo) GetByProduct(ctx context.Context, productID int64) (*entity.LegacyRecipe, error) {
	var rec entity.LegacyRecipe
	err := r.q.QueryRow(ctx, `
		SELECT id, product_id, material_id, amount, unit
		FROM product_recipes WHERE product_id = $1`, productID,
	).Scan(&rec.ID, &rec.ProductID, &rec.MaterialID, &rec.Amount, &rec.Unit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get legacy recipe: %w", err)
	}
	return &rec, nil
}
