package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-insumos/internal/domain"
	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
	"github.com/jhoicas/Inventario-insumos/internal/domain/repository"
)

var (
	_ repository.OrderRepository            = (*OrderRepo)(nil)
	_ repository.OrderConsumptionRepository = (*OrderConsumptionRepo)(nil)
)

// OrderRepo lectura de órdenes del módulo de ventas.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// GetByID obtiene la orden con sus líneas.
func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	var o entity.Order
	err := r.q.QueryRow(ctx, `
		SELECT id, branch_id, status, inventory_processed, created_at
		FROM orders WHERE id = $1`, id,
	).Scan(&o.ID, &o.BranchID, &o.Status, &o.InventoryProcessed, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, COALESCE(product_name, ''), quantity, options
		FROM order_items WHERE order_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			it  entity.OrderItem
			raw []byte
		)
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &raw); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		it.Options, err = decodeOptions(raw)
		if err != nil {
			return nil, fmt.Errorf("order item %d options: %w", it.ID, err)
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}

// decodeOptions convierte el JSON de opciones ({"size":"large","extra_shot":true}) a texto.
func decodeOptions(raw []byte) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case nil:
		case string:
			out[k] = val
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out, nil
}

// MarkInventoryProcessed marca la orden como descontada del inventario.
func (r *OrderRepo) MarkInventoryProcessed(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE orders SET inventory_processed = TRUE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark order processed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// OrderConsumptionRepo registro único de consumo por orden.
type OrderConsumptionRepo struct {
	q Querier
}

// NewOrderConsumptionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderConsumptionRepository(q Querier) *OrderConsumptionRepo {
	return &OrderConsumptionRepo{q: q}
}

// Create inserta el registro. La restricción única sobre order_id hace que, con dos
// procesos concurrentes, el segundo espere al primero y termine en ErrAlreadyProcessed.
func (r *OrderConsumptionRepo) Create(ctx context.Context, c *entity.OrderConsumption) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO order_consumptions (order_id, batch_id, processed_by, processed_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		c.OrderID, c.BatchID, c.ProcessedBy, c.ProcessedAt,
	).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err, "order_consumptions_order_id_key") {
			return domain.ErrAlreadyProcessed
		}
		return fmt.Errorf("create order consumption: %w", err)
	}
	return nil
}

// GetByOrder obtiene el registro de consumo de una orden; nil si no se ha procesado.
func (r *OrderConsumptionRepo) GetByOrder(ctx context.Context, orderID int64) (*entity.OrderConsumption, error) {
	var c entity.OrderConsumption
	err := r.q.QueryRow(ctx, `
		SELECT id, order_id, batch_id::text, processed_by, processed_at
		FROM order_consumptions WHERE order_id = $1`, orderID,
	).Scan(&c.ID, &c.OrderID, &c.BatchID, &c.ProcessedBy, &c.ProcessedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order consumption: %w", err)
	}
	return &c, nil
}
