package inventory

import (
	"context"

	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
	"github.com/jhoicas/Inventario-insumos/internal/domain/repository"
)

// Repositories agrupa los puertos de persistencia del motor de insumos.
// TxRunner entrega la misma estructura atada a la transacción en curso.
type Repositories struct {
	Items        repository.InventoryItemRepository
	Transactions repository.InventoryTransactionRepository
	Rules        repository.ConsumptionRuleRepository
	Recipes      repository.LegacyRecipeRepository
	Orders       repository.OrderRepository
	Consumptions repository.OrderConsumptionRepository
	Reports      repository.DailyStockReportRepository
	Adjustments  repository.InventoryAdjustmentRepository
	Counts       repository.StockCountRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback de todo lo escrito; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	// RunRepeatableRead igual que Run pero con aislamiento REPEATABLE READ, para lecturas
	// que deben ver una sola foto consistente del snapshot y del libro (reportes).
	RunRepeatableRead(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// LowStockNotifier colaborador externo que recibe las alertas de stock bajo.
type LowStockNotifier interface {
	NotifyLowStock(ctx context.Context, evt entity.LowStockEvent) error
}
