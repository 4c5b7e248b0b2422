package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-insumos/internal/domain"
	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
	"github.com/jhoicas/Inventario-insumos/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

const itemColumns = `id, branch_id, name, category, unit, quantity, alert_threshold, cost_price,
	average_cost, expiry_date, status, version, created_at, updated_at`

// InventoryItemRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

func scanItem(row pgx.Row) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	err := row.Scan(
		&it.ID, &it.BranchID, &it.Name, &it.Category, &it.Unit, &it.Quantity, &it.AlertThreshold,
		&it.CostPrice, &it.AverageCost, &it.ExpiryDate, &it.Status, &it.Version, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Create persiste un insumo nuevo.
func (r *InventoryItemRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (branch_id, name, category, unit, quantity, alert_threshold, cost_price,
			average_cost, expiry_date, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, $11, $12)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		item.BranchID, item.Name, item.Category, item.Unit, item.Quantity, item.AlertThreshold, item.CostPrice,
		item.AverageCost, item.ExpiryDate, item.Status, item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("create inventory item: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("create inventory item: %w", err)
	}
	return nil
}

// GetByID obtiene un insumo por ID.
func (r *InventoryItemRepo) GetByID(ctx context.Context, id int64) (*entity.InventoryItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return it, nil
}

// GetForUpdate obtiene el insumo y bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
func (r *InventoryItemRepo) GetForUpdate(ctx context.Context, id int64) (*entity.InventoryItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory item for update: %w", err)
	}
	return it, nil
}

// ListByBranch lista los insumos de una sucursal ordenados por nombre.
func (r *InventoryItemRepo) ListByBranch(ctx context.Context, branchID int64, f repository.ItemFilter) ([]*entity.InventoryItem, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + itemColumns + ` FROM inventory_items WHERE branch_id = $1`)
	args := []any{branchID}
	if f.Status != "" {
		args = append(args, f.Status)
		sb.WriteString(" AND status = " + placeholder(args))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		sb.WriteString(" AND category = " + placeholder(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		sb.WriteString(" AND name ILIKE " + placeholder(args))
	}
	if f.LowStockOnly {
		sb.WriteString(" AND quantity <= alert_threshold")
	}
	sb.WriteString(" ORDER BY name, id")
	query, args := limitOffset(sb.String(), args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// ApplyDelta suma delta al snapshot en una sola sentencia, incrementa la versión y recalcula el estado.
// Las expresiones del SET ven los valores previos de la fila, por eso quantity + $2 es el nuevo valor.
func (r *InventoryItemRepo) ApplyDelta(ctx context.Context, id int64, delta decimal.Decimal) (*entity.InventoryItem, error) {
	query := `
		UPDATE inventory_items SET
			quantity = quantity + $2::numeric,
			version = version + 1,
			status = CASE
				WHEN status = 'discontinued' THEN status
				WHEN quantity + $2::numeric <= 0 THEN 'out_of_stock'
				WHEN quantity + $2::numeric <= alert_threshold THEN 'low_stock'
				ELSE 'in_stock'
			END,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + itemColumns
	it, err := scanItem(r.q.QueryRow(ctx, query, id, delta))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("apply delta insumo %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("apply delta: %w", err)
	}
	return it, nil
}

// UpdateAverageCost actualiza el costo promedio ponderado.
func (r *InventoryItemRepo) UpdateAverageCost(ctx context.Context, id int64, cost decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE inventory_items SET average_cost = $2, updated_at = now() WHERE id = $1`, id, cost)
	if err != nil {
		return fmt.Errorf("update average cost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
