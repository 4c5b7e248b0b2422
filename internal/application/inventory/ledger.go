package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-insumos/internal/domain"
	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
	domaininv "github.com/jhoicas/Inventario-insumos/internal/domain/inventory"
	"github.com/jhoicas/Inventario-insumos/pkg/logger"
)

// LedgerEntry datos para registrar un delta en el libro.
// Quantity lleva el signo final (positivo suma, negativo descuenta).
type LedgerEntry struct {
	BatchID       string
	Type          string
	ReferenceType string
	ReferenceID   int64
	ItemID        int64
	Quantity      decimal.Decimal
	UnitCost      *decimal.Decimal // nil = costo promedio actual del insumo
	CreatedBy     int64
	Note          string
}

// PostedEntry resultado de registrar un delta: la transacción, el insumo resultante
// y, si la deducción dejó el insumo en o bajo el umbral, el evento de alerta.
type PostedEntry struct {
	Transaction *entity.InventoryTransaction
	Item        *entity.InventoryItem
	LowStock    *entity.LowStockEvent
}

// Ledger es el único escritor del snapshot: cada delta bloquea la fila del insumo,
// se aplica de forma atómica y queda registrado como transacción inmutable.
type Ledger struct {
	log *logger.Logger
	now func() time.Time
}

// NewLedger construye el libro.
func NewLedger(log *logger.Logger) *Ledger {
	if log == nil {
		log = logger.Nop()
	}
	return &Ledger{log: log.Named("ledger"), now: time.Now}
}

// Post registra un delta usando los repositorios de la transacción en curso.
// Signos: purchase > 0; sale y waste < 0; adjustment y transfer cualquiera distinto de cero.
func (l *Ledger) Post(ctx context.Context, repos Repositories, e LedgerEntry) (*PostedEntry, error) {
	if err := validateEntry(e); err != nil {
		return nil, err
	}

	// Bloquea la fila en inventory_items (SELECT FOR UPDATE) para serializar escritores del mismo insumo
	item, err := repos.Items.GetForUpdate(ctx, e.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("insumo %d: %w", e.ItemID, domain.ErrNotFound)
	}

	unitCost := item.UnitCost()
	if e.UnitCost != nil {
		unitCost = *e.UnitCost
	}

	// Compras con costo explícito recalculan el costo promedio ponderado
	if e.Type == entity.TransactionTypePurchase && e.UnitCost != nil {
		newCost := domaininv.CostCalculator(item.Quantity, item.AverageCost, e.Quantity, unitCost)
		if !newCost.Equal(item.AverageCost) {
			if err := repos.Items.UpdateAverageCost(ctx, item.ID, newCost); err != nil {
				return nil, err
			}
		}
	}

	updated, err := repos.Items.ApplyDelta(ctx, item.ID, e.Quantity)
	if err != nil {
		return nil, err
	}

	tx := &entity.InventoryTransaction{
		BatchID:       e.BatchID,
		Type:          e.Type,
		ReferenceType: e.ReferenceType,
		ReferenceID:   e.ReferenceID,
		ItemID:        item.ID,
		BranchID:      item.BranchID,
		Quantity:      e.Quantity,
		Unit:          item.Unit,
		UnitCost:      unitCost,
		CreatedBy:     e.CreatedBy,
		CreatedAt:     l.now(),
		Note:          e.Note,
	}
	if err := repos.Transactions.Append(ctx, tx); err != nil {
		return nil, err
	}

	posted := &PostedEntry{Transaction: tx, Item: updated}
	if e.Quantity.IsNegative() && updated.IsLow() {
		posted.LowStock = &entity.LowStockEvent{
			MaterialID:        updated.ID,
			BranchID:          updated.BranchID,
			Name:              updated.Name,
			RemainingQuantity: updated.Quantity,
			Unit:              updated.Unit,
		}
	}

	l.log.Debug().
		Int64("item_id", item.ID).
		Str("type", e.Type).
		Str("delta", e.Quantity.String()).
		Str("remaining", updated.Quantity.String()).
		Str("batch_id", e.BatchID).
		Msg("movimiento registrado")
	return posted, nil
}

func validateEntry(e LedgerEntry) error {
	if e.ItemID <= 0 || e.Quantity.IsZero() || !entity.ValidTransactionType(e.Type) {
		return domain.ErrInvalidInput
	}
	switch e.Type {
	case entity.TransactionTypePurchase:
		if !e.Quantity.IsPositive() {
			return fmt.Errorf("%w: una compra debe ser positiva", domain.ErrInvalidInput)
		}
		if e.UnitCost != nil && e.UnitCost.IsNegative() {
			return fmt.Errorf("%w: costo unitario negativo", domain.ErrInvalidInput)
		}
	case entity.TransactionTypeSale, entity.TransactionTypeWaste:
		if !e.Quantity.IsNegative() {
			return fmt.Errorf("%w: %s debe ser una deducción", domain.ErrInvalidInput, e.Type)
		}
	}
	return nil
}

// notifyLowStock entrega las alertas después del commit. Un fallo del notificador se registra
// pero no revierte la operación. Si un insumo aparece varias veces se envía solo el último estado.
func notifyLowStock(ctx context.Context, n LowStockNotifier, log *logger.Logger, events []entity.LowStockEvent) {
	if n == nil || len(events) == 0 {
		return
	}
	last := make(map[int64]int, len(events))
	for i, evt := range events {
		last[evt.MaterialID] = i
	}
	for i, evt := range events {
		if last[evt.MaterialID] != i {
			continue
		}
		log.Warn().
			Int64("material_id", evt.MaterialID).
			Str("remaining", evt.RemainingQuantity.String()).
			Str("unit", evt.Unit).
			Msg("insumo en stock bajo")
		if err := n.NotifyLowStock(ctx, evt); err != nil {
			log.Error().Err(err).Int64("material_id", evt.MaterialID).Msg("notificar stock bajo")
		}
	}
}
