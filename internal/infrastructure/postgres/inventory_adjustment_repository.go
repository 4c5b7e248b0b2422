package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-insumos/internal/domain"
	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
	"github.com/jhoicas/Inventario-insumos/internal/domain/repository"
)

var _ repository.InventoryAdjustmentRepository = (*InventoryAdjustmentRepo)(nil)

const adjustmentColumns = `id, branch_id, reason, status, created_by, approved_by, stock_count_id,
	COALESCE(batch_id::text, ''), COALESCE(notes, ''), created_at, reviewed_at`

// InventoryAdjustmentRepo ajustes manuales y sus líneas.
type InventoryAdjustmentRepo struct {
	q Querier
}

// NewInventoryAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryAdjustmentRepository(q Querier) *InventoryAdjustmentRepo {
	return &InventoryAdjustmentRepo{q: q}
}

// Create inserta el ajuste y sus líneas.
func (r *InventoryAdjustmentRepo) Create(ctx context.Context, adj *entity.InventoryAdjustment) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO inventory_adjustments (branch_id, reason, status, created_by, approved_by, stock_count_id,
			batch_id, notes, created_at, reviewed_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, '')::uuid, $8, $9, $10)
		RETURNING id`,
		adj.BranchID, adj.Reason, adj.Status, adj.CreatedBy, adj.ApprovedBy, adj.StockCountID,
		adj.BatchID, adj.Notes, adj.CreatedAt, adj.ReviewedAt,
	).Scan(&adj.ID)
	if err != nil {
		return fmt.Errorf("create inventory adjustment: %w", err)
	}

	batch := &pgx.Batch{}
	for i := range adj.Items {
		it := &adj.Items[i]
		it.AdjustmentID = adj.ID
		batch.Queue(`
			INSERT INTO inventory_adjustment_items (adjustment_id, item_id, quantity, unit_cost, note)
			VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			adj.ID, it.ItemID, it.Quantity, it.UnitCost, it.Note,
		).QueryRow(func(row pgx.Row) error {
			return row.Scan(&it.ID)
		})
	}
	if err := r.q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("create inventory adjustment items: %w", err)
	}
	return nil
}

// GetByID obtiene un ajuste con sus líneas.
func (r *InventoryAdjustmentRepo) GetByID(ctx context.Context, id int64) (*entity.InventoryAdjustment, error) {
	return r.get(ctx, `SELECT `+adjustmentColumns+` FROM inventory_adjustments WHERE id = $1`, id)
}

// GetForUpdate obtiene el ajuste y bloquea la cabecera (SELECT FOR UPDATE).
func (r *InventoryAdjustmentRepo) GetForUpdate(ctx context.Context, id int64) (*entity.InventoryAdjustment, error) {
	return r.get(ctx, `SELECT `+adjustmentColumns+` FROM inventory_adjustments WHERE id = $1 FOR UPDATE`, id)
}

func (r *InventoryAdjustmentRepo) get(ctx context.Context, query string, id int64) (*entity.InventoryAdjustment, error) {
	var a entity.InventoryAdjustment
	err := r.q.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.BranchID, &a.Reason, &a.Status, &a.CreatedBy, &a.ApprovedBy, &a.StockCountID,
		&a.BatchID, &a.Notes, &a.CreatedAt, &a.ReviewedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory adjustment: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, adjustment_id, item_id, quantity, unit_cost, COALESCE(note, '')
		FROM inventory_adjustment_items WHERE adjustment_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("get inventory adjustment items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.InventoryAdjustmentItem
		if err := rows.Scan(&it.ID, &it.AdjustmentID, &it.ItemID, &it.Quantity, &it.UnitCost, &it.Note); err != nil {
			return nil, fmt.Errorf("scan inventory adjustment item: %w", err)
		}
		a.Items = append(a.Items, it)
	}
	return &a, rows.Err()
}

// UpdateStatus guarda la revisión del ajuste (estado, aprobador, lote generado, notas).
func (r *InventoryAdjustmentRepo) UpdateStatus(ctx context.Context, adj *entity.InventoryAdjustment) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE inventory_adjustments
		SET status = $2, approved_by = $3, reviewed_at = $4, batch_id = NULLIF($5, '')::uuid, notes = $6
		WHERE id = $1`,
		adj.ID, adj.Status, adj.ApprovedBy, adj.ReviewedAt, adj.BatchID, adj.Notes,
	)
	if err != nil {
		return fmt.Errorf("update inventory adjustment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
