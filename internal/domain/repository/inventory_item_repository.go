package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
)

// ItemFilter filtros para listar insumos de una sucursal.
type ItemFilter struct {
	Status       string
	Category     string
	Search       string // coincidencia parcial sobre el nombre
	LowStockOnly bool
	Limit        int
	Offset       int
}

// InventoryItemRepository puerto de persistencia para insumos (snapshot).
type InventoryItemRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, id int64) (*entity.InventoryItem, error)
	// GetForUpdate bloquea la fila del insumo hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id int64) (*entity.InventoryItem, error)
	ListByBranch(ctx context.Context, branchID int64, filter ItemFilter) ([]*entity.InventoryItem, error)
	// ApplyDelta suma delta al snapshot de forma atómica, incrementa la versión, recalcula el estado
	// y devuelve el insumo resultante. No valida límites: el resultado puede ser negativo.
	ApplyDelta(ctx context.Context, id int64, delta decimal.Decimal) (*entity.InventoryItem, error)
	UpdateAverageCost(ctx context.Context, id int64, cost decimal.Decimal) error
}
