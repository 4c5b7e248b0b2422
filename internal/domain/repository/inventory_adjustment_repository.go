package repository

import (
	"context"

	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
)

// InventoryAdjustmentRepository persistencia de ajustes manuales y sus líneas.
type InventoryAdjustmentRepository interface {
	Create(ctx context.Context, adj *entity.InventoryAdjustment) error
	GetByID(ctx context.Context, id int64) (*entity.InventoryAdjustment, error)
	GetForUpdate(ctx context.Context, id int64) (*entity.InventoryAdjustment, error)
	UpdateStatus(ctx context.Context, adj *entity.InventoryAdjustment) error
}
