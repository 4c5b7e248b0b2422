// Package notify entrega las alertas de stock bajo. La entrega real (correo, push)
// es un colaborador externo; aquí se deja constancia en el log estructurado.
package notify

import (
	"context"

	"github.com/jhoicas/Inventario-insumos/internal/application/inventory"
	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
	"github.com/jhoicas/Inventario-insumos/pkg/logger"
)

var _ inventory.LowStockNotifier = (*LogNotifier)(nil)

// LogNotifier escribe cada alerta como un evento warn.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	if log == nil {
		log = logger.Nop()
	}
	return &LogNotifier{log: log.Named("low_stock")}
}

func (n *LogNotifier) NotifyLowStock(ctx context.Context, evt entity.LowStockEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.log.Warn().
		Int64("material_id", evt.MaterialID).
		Int64("branch_id", evt.BranchID).
		Str("name", evt.Name).
		Str("remaining", evt.RemainingQuantity.String()).
		Str("unit", evt.Unit).
		Msg("insumo con stock bajo")
	return nil
}
