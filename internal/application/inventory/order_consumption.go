package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-insumos/internal/application/dto"
	"github.com/jhoicas/Inventario-insumos/internal/domain"
	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
	"github.com/jhoicas/Inventario-insumos/internal/domain/inventory"
	"github.com/jhoicas/Inventario-insumos/pkg/logger"
)

// OrderConsumptionUseCase descuenta los insumos de una orden finalizada, una sola vez por orden.
type OrderConsumptionUseCase struct {
	txRunner TxRunner
	ledger   *Ledger
	notifier LowStockNotifier
	log      *logger.Logger
	now      func() time.Time
}

// NewOrderConsumptionUseCase construye el procesador.
func NewOrderConsumptionUseCase(txRunner TxRunner, ledger *Ledger, notifier LowStockNotifier, log *logger.Logger) *OrderConsumptionUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &OrderConsumptionUseCase{
		txRunner: txRunner,
		ledger:   ledger,
		notifier: notifier,
		log:      log.Named("order_consumption"),
		now:      time.Now,
	}
}

// ProcessOrderConsumption descuenta el inventario de la orden dentro de una única transacción:
//  1. inserta el registro de consumo de la orden (restricción única: si ya existe, ErrAlreadyProcessed);
//  2. resuelve cada línea y registra una transacción sale (y waste si aplica) por instrucción;
//  3. marca la orden como inventory_processed.
//
// Cualquier error revierte todo y la orden queda sin procesar para reintentar.
// Una orden de otra sucursal devuelve ErrForbidden sin escribir nada.
// Las alertas de stock bajo se envían después del commit.
func (uc *OrderConsumptionUseCase) ProcessOrderConsumption(ctx context.Context, branchID, orderID, userID int64) (*dto.OrderConsumptionResult, error) {
	if branchID <= 0 || orderID <= 0 || userID <= 0 {
		return nil, domain.ErrInvalidInput
	}

	batchID := uuid.New().String()
	var (
		result *dto.OrderConsumptionResult
		alerts []entity.LowStockEvent
	)

	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos Repositories) error {
		// Reinicia el acumulado por si el runner reintenta la función
		result = &dto.OrderConsumptionResult{OrderID: orderID, BatchID: batchID}
		alerts = alerts[:0]

		order, err := repos.Orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return fmt.Errorf("orden %d: %w", orderID, domain.ErrNotFound)
		}
		if order.BranchID != branchID {
			return fmt.Errorf("orden %d: %w", orderID, domain.ErrForbidden)
		}
		if order.InventoryProcessed {
			return domain.ErrAlreadyProcessed
		}
		if err := repos.Consumptions.Create(ctx, &entity.OrderConsumption{
			OrderID:     orderID,
			BatchID:     batchID,
			ProcessedBy: userID,
			ProcessedAt: uc.now(),
		}); err != nil {
			return err
		}

		resolver := NewConsumptionResolver(repos.Rules, repos.Recipes)
		agg := newConsumptionAggregate()
		for _, line := range order.Items {
			if !line.Quantity.IsPositive() {
				continue
			}
			res, err := resolver.Resolve(ctx, line.ProductID, line.Quantity, line.Options)
			if err != nil {
				return err
			}
			if res.Kind == inventory.NoRuleConfigured {
				uc.log.Debug().Int64("order_id", orderID).Int64("product_id", line.ProductID).
					Msg("producto sin regla de consumo ni receta; no descuenta insumos")
				result.SkippedProducts = appendUnique(result.SkippedProducts, line.ProductID)
				continue
			}
			for _, d := range res.Instructions {
				posted, err := uc.ledger.Post(ctx, repos, LedgerEntry{
					BatchID:       batchID,
					Type:          d.Type,
					ReferenceType: entity.ReferenceOrder,
					ReferenceID:   orderID,
					ItemID:        d.MaterialID,
					Quantity:      d.Quantity.Neg(),
					CreatedBy:     userID,
					Note:          lineNote(orderID, line, d.Type),
				})
				if err != nil {
					return fmt.Errorf("orden %d, producto %d: %w", orderID, line.ProductID, err)
				}
				if posted.Item.BranchID != order.BranchID {
					uc.log.Warn().Int64("order_id", orderID).Int64("material_id", posted.Item.ID).
						Int64("order_branch", order.BranchID).Int64("material_branch", posted.Item.BranchID).
						Msg("la regla descuenta un insumo de otra sucursal")
				}
				agg.add(posted, d)
				if posted.LowStock != nil {
					alerts = append(alerts, *posted.LowStock)
				}
			}
		}

		if err := repos.Orders.MarkInventoryProcessed(ctx, orderID); err != nil {
			return err
		}
		result.ConsumedMaterials = agg.list()
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyProcessed) {
			uc.log.Info().Int64("order_id", orderID).Msg("inventario de la orden ya procesado; sin cambios")
		} else {
			uc.log.Error().Err(err).Int64("order_id", orderID).Msg("procesar consumo de la orden")
		}
		return nil, err
	}

	notifyLowStock(ctx, uc.notifier, uc.log, alerts)
	uc.log.Info().
		Int64("order_id", orderID).
		Int("materials", len(result.ConsumedMaterials)).
		Int("skipped_products", len(result.SkippedProducts)).
		Str("batch_id", batchID).
		Msg("consumo de la orden procesado")
	return result, nil
}

func lineNote(orderID int64, line entity.OrderItem, txType string) string {
	name := line.ProductName
	if name == "" {
		name = fmt.Sprintf("producto %d", line.ProductID)
	}
	if txType == entity.TransactionTypeWaste {
		return fmt.Sprintf("Orden #%d: merma de %s x%s", orderID, name, line.Quantity.String())
	}
	return fmt.Sprintf("Orden #%d: %s x%s", orderID, name, line.Quantity.String())
}

func appendUnique(ids []int64, id int64) []int64 {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}

// consumptionAggregate acumula el consumo por insumo conservando el orden de aparición.
type consumptionAggregate struct {
	order []int64
	byID  map[int64]*dto.ConsumedMaterialDTO
}

func newConsumptionAggregate() *consumptionAggregate {
	return &consumptionAggregate{byID: make(map[int64]*dto.ConsumedMaterialDTO)}
}

func (a *consumptionAggregate) add(p *PostedEntry, d inventory.Deduction) {
	m, ok := a.byID[p.Item.ID]
	if !ok {
		m = &dto.ConsumedMaterialDTO{
			MaterialID: p.Item.ID,
			Name:       p.Item.Name,
			Unit:       p.Item.Unit,
			Consumed:   decimal.Zero,
			Waste:      decimal.Zero,
			Total:      decimal.Zero,
		}
		a.byID[p.Item.ID] = m
		a.order = append(a.order, p.Item.ID)
	}
	if d.Type == entity.TransactionTypeWaste {
		m.Waste = m.Waste.Add(d.Quantity)
	} else {
		m.Consumed = m.Consumed.Add(d.Quantity)
	}
	m.Total = m.Total.Add(d.Quantity)
	m.Remaining = p.Item.Quantity
}

func (a *consumptionAggregate) list() []dto.ConsumedMaterialDTO {
	out := make([]dto.ConsumedMaterialDTO, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, *a.byID[id])
	}
	return out
}
