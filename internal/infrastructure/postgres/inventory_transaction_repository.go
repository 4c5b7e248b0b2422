package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
	"github.com/jhoicas/Inventario-insumos/internal/domain/repository"
)

var _ repository.InventoryTransactionRepository = (*InventoryTransactionRepo)(nil)

// InventoryTransactionRepo libro de movimientos sobre PostgreSQL. Solo INSERT y SELECT.
type InventoryTransactionRepo struct {
	q Querier
}

// NewInventoryTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryTransactionRepository(q Querier) *InventoryTransactionRepo {
	return &InventoryTransactionRepo{q: q}
}

// Append inserta una transacción inmutable.
func (r *InventoryTransactionRepo) Append(ctx context.Context, tx *entity.InventoryTransaction) error {
	query := `
		INSERT INTO inventory_transactions (batch_id, type, reference_type, reference_id, item_id, branch_id,
			quantity, unit, unit_cost, created_by, created_at, note)
		VALUES ($1, $2, $3, NULLIF($4, 0), $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		tx.BatchID, tx.Type, tx.ReferenceType, tx.ReferenceID, tx.ItemID, tx.BranchID,
		tx.Quantity, tx.Unit, tx.UnitCost, tx.CreatedBy, tx.CreatedAt, tx.Note,
	).Scan(&tx.ID)
	if err != nil {
		return fmt.Errorf("append inventory transaction: %w", err)
	}
	return nil
}

// List consulta el libro en orden cronológico. From inclusivo, To exclusivo.
func (r *InventoryTransactionRepo) List(ctx context.Context, f repository.TransactionFilter) ([]*entity.InventoryTransaction, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, batch_id::text, type, reference_type, COALESCE(reference_id, 0), item_id, branch_id,
			quantity, unit, unit_cost, created_by, created_at, note
		FROM inventory_transactions WHERE TRUE`)
	var args []any
	if f.ItemID != nil {
		args = append(args, *f.ItemID)
		sb.WriteString(" AND item_id = " + placeholder(args))
	}
	if f.BranchID != nil {
		args = append(args, *f.BranchID)
		sb.WriteString(" AND branch_id = " + placeholder(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		sb.WriteString(" AND created_at >= " + placeholder(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		sb.WriteString(" AND created_at < " + placeholder(args))
	}
	if len(f.Types) > 0 {
		args = append(args, f.Types)
		sb.WriteString(" AND type = ANY(" + placeholder(args) + ")")
	}
	if f.ReferenceType != "" {
		args = append(args, f.ReferenceType)
		sb.WriteString(" AND reference_type = " + placeholder(args))
	}
	if f.ReferenceID != nil {
		args = append(args, *f.ReferenceID)
		sb.WriteString(" AND reference_id = " + placeholder(args))
	}
	sb.WriteString(" ORDER BY created_at, id")
	query, args := limitOffset(sb.String(), args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryTransaction
	for rows.Next() {
		var tx entity.InventoryTransaction
		if err := rows.Scan(
			&tx.ID, &tx.BatchID, &tx.Type, &tx.ReferenceType, &tx.ReferenceID, &tx.ItemID, &tx.BranchID,
			&tx.Quantity, &tx.Unit, &tx.UnitCost, &tx.CreatedBy, &tx.CreatedAt, &tx.Note,
		); err != nil {
			return nil, fmt.Errorf("scan inventory transaction: %w", err)
		}
		list = append(list, &tx)
	}
	return list, rows.Err()
}
