package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Inventario-insumos/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// NewRepositories arma los repositorios sobre q (pool o tx).
func NewRepositories(q Querier) inventory.Repositories {
	return inventory.Repositories{
		Items:        NewInventoryItemRepository(q),
		Transactions: NewInventoryTransactionRepository(q),
		Rules:        NewConsumptionRuleRepository(q),
		Recipes:      NewLegacyRecipeRepository(q),
		Orders:       NewOrderRepository(q),
		Consumptions: NewOrderConsumptionRepository(q),
		Reports:      NewDailyStockReportRepository(q),
		Adjustments:  NewInventoryAdjustmentRepository(q),
		Counts:       NewStockCountRepository(q),
	}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos inventory.Repositories) error) error {
	return r.run(ctx, pgx.TxOptions{}, fn)
}

// RunRepeatableRead igual que Run con aislamiento REPEATABLE READ: todas las lecturas ven la misma foto.
func (r *TxRunner) RunRepeatableRead(ctx context.Context, fn func(ctx context.Context, repos inventory.Repositories) error) error {
	return r.run(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead}, fn)
}

func (r *TxRunner) run(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, repos inventory.Repositories) error) error {
	tx, err := r.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, NewRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
