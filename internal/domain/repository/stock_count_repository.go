package repository

import (
	"context"

	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
)

// StockCountRepository persistencia de conteos físicos y sus líneas.
type StockCountRepository interface {
	Create(ctx context.Context, count *entity.StockCount) error
	GetByID(ctx context.Context, id int64) (*entity.StockCount, error)
	// GetForUpdate bloquea la cabecera del conteo para transiciones de estado.
	GetForUpdate(ctx context.Context, id int64) (*entity.StockCount, error)
	Update(ctx context.Context, count *entity.StockCount) error
	UpdateItem(ctx context.Context, item *entity.StockCountItem) error
}
