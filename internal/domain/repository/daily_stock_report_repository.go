package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
)

// DailyStockReportRepository persistencia de reportes diarios.
// Create devuelve domain.ErrDuplicate si ya existe un reporte para (sucursal, fecha).
type DailyStockReportRepository interface {
	Create(ctx context.Context, report *entity.DailyStockReport) error
	GetByID(ctx context.Context, id int64) (*entity.DailyStockReport, error)
	GetByBranchAndDate(ctx context.Context, branchID int64, date time.Time) (*entity.DailyStockReport, error)
}
