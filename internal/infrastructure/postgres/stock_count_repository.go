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

var _ repository.StockCountRepository = (*StockCountRepo)(nil)

const countColumns = `id, branch_id, status, COALESCE(notes, ''), created_by, completed_by, variance_posted,
	adjustment_id, created_at, started_at, completed_at`

// StockCountRepo conteos físicos y sus líneas.
type StockCountRepo struct {
	q Querier
}

// NewStockCountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockCountRepository(q Querier) *StockCountRepo {
	return &StockCountRepo{q: q}
}

// Create inserta el conteo y sus líneas.
func (r *StockCountRepo) Create(ctx context.Context, c *entity.StockCount) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO stock_counts (branch_id, status, notes, created_by, variance_posted, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5)
		RETURNING id`,
		c.BranchID, c.Status, c.Notes, c.CreatedBy, c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("create stock count: %w", err)
	}

	batch := &pgx.Batch{}
	for i := range c.Items {
		it := &c.Items[i]
		it.StockCountID = c.ID
		batch.Queue(`
			INSERT INTO stock_count_items (stock_count_id, item_id, item_name, unit, expected, actual,
				variance, variance_percentage, unit_cost, variance_cost)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
			c.ID, it.ItemID, it.ItemName, it.Unit, it.Expected, it.Actual,
			it.Variance, it.VariancePercentage, it.UnitCost, it.VarianceCost,
		).QueryRow(func(row pgx.Row) error {
			return row.Scan(&it.ID)
		})
	}
	if err := r.q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("create stock count items: %w", err)
	}
	return nil
}

// GetByID obtiene el conteo con sus líneas.
func (r *StockCountRepo) GetByID(ctx context.Context, id int64) (*entity.StockCount, error) {
	return r.get(ctx, `SELECT `+countColumns+` FROM stock_counts WHERE id = $1`, id)
}

// GetForUpdate obtiene el conteo y bloquea la cabecera (SELECT FOR UPDATE).
func (r *StockCountRepo) GetForUpdate(ctx context.Context, id int64) (*entity.StockCount, error) {
	return r.get(ctx, `SELECT `+countColumns+` FROM stock_counts WHERE id = $1 FOR UPDATE`, id)
}

func (r *StockCountRepo) get(ctx context.Context, query string, id int64) (*entity.StockCount, error) {
	var c entity.StockCount
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.BranchID, &c.Status, &c.Notes, &c.CreatedBy, &c.CompletedBy, &c.VariancePosted,
		&c.AdjustmentID, &c.CreatedAt, &c.StartedAt, &c.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock count: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, stock_count_id, item_id, item_name, unit, expected, actual,
			variance, variance_percentage, unit_cost, variance_cost
		FROM stock_count_items WHERE stock_count_id = $1 ORDER BY item_name, id`, id)
	if err != nil {
		return nil, fmt.Errorf("get stock count items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.StockCountItem
		if err := rows.Scan(
			&it.ID, &it.StockCountID, &it.ItemID, &it.ItemName, &it.Unit, &it.Expected, &it.Actual,
			&it.Variance, &it.VariancePercentage, &it.UnitCost, &it.VarianceCost,
		); err != nil {
			return nil, fmt.Errorf("scan stock count item: %w", err)
		}
		c.Items = append(c.Items, it)
	}
	return &c, rows.Err()
}

// Update guarda estado y marcas de tiempo de la cabecera.
func (r *StockCountRepo) Update(ctx context.Context, c *entity.StockCount) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE stock_counts
		SET status = $2, notes = $3, completed_by = $4, variance_posted = $5, adjustment_id = $6,
			started_at = $7, completed_at = $8
		WHERE id = $1`,
		c.ID, c.Status, c.Notes, c.CompletedBy, c.VariancePosted, c.AdjustmentID, c.StartedAt, c.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateItem guarda la cantidad contada y la varianza de una línea.
func (r *StockCountRepo) UpdateItem(ctx context.Context, it *entity.StockCountItem) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE stock_count_items
		SET actual = $2, variance = $3, variance_percentage = $4, variance_cost = $5
		WHERE id = $1`,
		it.ID, it.Actual, it.Variance, it.VariancePercentage, it.VarianceCost,
	)
	if err != nil {
		return fmt.Errorf("update stock count item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
