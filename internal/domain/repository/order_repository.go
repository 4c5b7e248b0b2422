package repository

import (
	"context"

	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
)

// OrderRepository lectura de órdenes del módulo de ventas.
type OrderRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	MarkInventoryProcessed(ctx context.Context, id int64) error
}

// OrderConsumptionRepository registro único de consumo por orden.
// Create devuelve domain.ErrAlreadyProcessed si la orden ya tiene registro.
type OrderConsumptionRepository interface {
	Create(ctx context.Context, c *entity.OrderConsumption) error
	GetByOrder(ctx context.Context, orderID int64) (*entity.OrderConsumption, error)
}
