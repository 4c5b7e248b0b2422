package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-insumos/internal/application/dto"
	"github.com/jhoicas/Inventario-insumos/internal/domain"
	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
	domaininv "github.com/jhoicas/Inventario-insumos/internal/domain/inventory"
	"github.com/jhoicas/Inventario-insumos/internal/domain/repository"
	"github.com/jhoicas/Inventario-insumos/pkg/logger"
)

// StockCountUseCase conteo físico: draft -> in_progress -> completed | cancelled.
// La varianza de un conteo completado se lleva al libro una sola vez mediante un ajuste aprobado.
type StockCountUseCase struct {
	txRunner TxRunner
	repos    Repositories
	ledger   *Ledger
	notifier LowStockNotifier
	log      *logger.Logger
	now      func() time.Time
}

// NewStockCountUseCase construye el caso de uso.
func NewStockCountUseCase(txRunner TxRunner, repos Repositories, ledger *Ledger, notifier LowStockNotifier, log *logger.Logger) *StockCountUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &StockCountUseCase{
		txRunner: txRunner,
		repos:    repos,
		ledger:   ledger,
		notifier: notifier,
		log:      log.Named("stock_counts"),
		now:      time.Now,
	}
}

// Create abre un conteo en draft. Lo esperado de cada línea es el snapshot en este momento.
// Sin ItemIDs se incluyen todos los insumos de la sucursal.
func (uc *StockCountUseCase) Create(ctx context.Context, branchID, userID int64, in dto.CreateStockCountRequest) (*dto.StockCountResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	count := &entity.StockCount{
		BranchID:  branchID,
		Status:    entity.StockCountDraft,
		Notes:     in.Notes,
		CreatedBy: userID,
		CreatedAt: uc.now(),
	}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos Repositories) error {
		items, err := uc.countableItems(ctx, repos, branchID, in.ItemIDs)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return fmt.Errorf("%w: el conteo no tiene insumos", domain.ErrInvalidInput)
		}
		for _, it := range items {
			count.Items = append(count.Items, entity.StockCountItem{
				ItemID:   it.ID,
				ItemName: it.Name,
				Unit:     it.Unit,
				Expected: it.Quantity,
				UnitCost: it.UnitCost(),
			})
		}
		return repos.Counts.Create(ctx, count)
	})
	if err != nil {
		return nil, err
	}
	return toStockCountResponse(count), nil
}

func (uc *StockCountUseCase) countableItems(ctx context.Context, repos Repositories, branchID int64, ids []int64) ([]*entity.InventoryItem, error) {
	if len(ids) == 0 {
		return repos.Items.ListByBranch(ctx, branchID, repository.ItemFilter{})
	}
	seen := make(map[int64]bool, len(ids))
	out := make([]*entity.InventoryItem, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		item, err := repos.Items.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, fmt.Errorf("insumo %d: %w", id, domain.ErrNotFound)
		}
		if item.BranchID != branchID {
			return nil, fmt.Errorf("insumo %d: %w", id, domain.ErrForbidden)
		}
		out = append(out, item)
	}
	return out, nil
}

// Get obtiene un conteo de la sucursal con sus líneas.
func (uc *StockCountUseCase) Get(ctx context.Context, branchID, id int64) (*dto.StockCountResponse, error) {
	count, err := uc.repos.Counts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if count == nil {
		return nil, domain.ErrNotFound
	}
	if count.BranchID != branchID {
		return nil, domain.ErrForbidden
	}
	return toStockCountResponse(count), nil
}

// Start pasa el conteo de draft a in_progress.
func (uc *StockCountUseCase) Start(ctx context.Context, branchID, id int64) (*dto.StockCountResponse, error) {
	return uc.transition(ctx, branchID, id, entity.StockCountInProgress, func(c *entity.StockCount) error {
		now := uc.now()
		c.StartedAt = &now
		return nil
	})
}

// Cancel pasa el conteo de draft o in_progress a cancelled.
func (uc *StockCountUseCase) Cancel(ctx context.Context, branchID, id int64) (*dto.StockCountResponse, error) {
	return uc.transition(ctx, branchID, id, entity.StockCountCancelled, nil)
}

// Complete cierra el conteo. Todas las líneas deben tener cantidad contada;
// se fija varianza, porcentaje y costo de cada una.
func (uc *StockCountUseCase) Complete(ctx context.Context, branchID, userID, id int64) (*dto.StockCountResponse, error) {
	out, err := uc.transition(ctx, branchID, id, entity.StockCountCompleted, func(c *entity.StockCount) error {
		for i := range c.Items {
			if c.Items[i].Actual == nil {
				return fmt.Errorf("%w: falta contar %s", domain.ErrInvalidInput, c.Items[i].ItemName)
			}
		}
		now := uc.now()
		c.CompletedBy = &userID
		c.CompletedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("stock_count_id", id).Int("lines", len(out.Items)).Msg("conteo físico completado")
	return out, nil
}

func (uc *StockCountUseCase) transition(ctx context.Context, branchID, id int64, to string, mutate func(*entity.StockCount) error) (*dto.StockCountResponse, error) {
	var count *entity.StockCount
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos Repositories) error {
		var err error
		count, err = lockCount(ctx, repos, branchID, id)
		if err != nil {
			return err
		}
		if !entity.CanTransitionStockCount(count.Status, to) {
			return fmt.Errorf("%w: conteo %s -> %s", domain.ErrInvalidTransition, count.Status, to)
		}
		if mutate != nil {
			if err := mutate(count); err != nil {
				return err
			}
		}
		count.Status = to
		if to == entity.StockCountCompleted {
			for i := range count.Items {
				domaininv.ComputeVariance(&count.Items[i])
				if err := repos.Counts.UpdateItem(ctx, &count.Items[i]); err != nil {
					return err
				}
			}
		}
		return repos.Counts.Update(ctx, count)
	})
	if err != nil {
		return nil, err
	}
	return toStockCountResponse(count), nil
}

// RecordCount registra la cantidad contada de un insumo. Solo con el conteo in_progress;
// se puede corregir cuantas veces haga falta antes de completar.
func (uc *StockCountUseCase) RecordCount(ctx context.Context, branchID, id, itemID int64, in dto.RecordCountRequest) (*dto.StockCountLineResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	var line *entity.StockCountItem
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos Repositories) error {
		count, err := lockCount(ctx, repos, branchID, id)
		if err != nil {
			return err
		}
		if count.Status != entity.StockCountInProgress {
			return fmt.Errorf("%w: el conteo está en %s", domain.ErrInvalidTransition, count.Status)
		}
		for i := range count.Items {
			if count.Items[i].ItemID == itemID {
				line = &count.Items[i]
				break
			}
		}
		if line == nil {
			return fmt.Errorf("insumo %d en conteo %d: %w", itemID, id, domain.ErrNotFound)
		}
		actual := in.Actual
		line.Actual = &actual
		domaininv.ComputeVariance(line)
		return repos.Counts.UpdateItem(ctx, line)
	})
	if err != nil {
		return nil, err
	}
	resp := toStockCountResponse(&entity.StockCount{Items: []entity.StockCountItem{*line}}).Items[0]
	return &resp, nil
}

// PostVariance lleva al libro la varianza de un conteo completado: crea un ajuste ya aprobado
// con las líneas de varianza distinta de cero y lo registra. Solo una vez por conteo.
func (uc *StockCountUseCase) PostVariance(ctx context.Context, branchID, userID, id int64) (*dto.StockCountResponse, error) {
	var (
		count  *entity.StockCount
		alerts []entity.LowStockEvent
	)
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos Repositories) error {
		var err error
		count, err = lockCount(ctx, repos, branchID, id)
		if err != nil {
			return err
		}
		if count.Status != entity.StockCountCompleted {
			return fmt.Errorf("%w: el conteo está en %s", domain.ErrInvalidTransition, count.Status)
		}
		if count.VariancePosted {
			return fmt.Errorf("%w: la varianza del conteo %d ya se registró", domain.ErrConflict, id)
		}

		now := uc.now()
		countID := count.ID
		adj := &entity.InventoryAdjustment{
			BranchID:     count.BranchID,
			Reason:       fmt.Sprintf("Conteo físico #%d", count.ID),
			Status:       entity.AdjustmentApproved,
			CreatedBy:    userID,
			ApprovedBy:   &userID,
			StockCountID: &countID,
			CreatedAt:    now,
			ReviewedAt:   &now,
		}
		for _, line := range count.Items {
			if line.Variance.IsZero() {
				continue
			}
			adj.Items = append(adj.Items, entity.InventoryAdjustmentItem{
				ItemID:   line.ItemID,
				Quantity: line.Variance,
				UnitCost: line.UnitCost,
				Note:     varianceNote(count.ID, line),
			})
		}

		count.VariancePosted = true
		if len(adj.Items) > 0 {
			if err := repos.Adjustments.Create(ctx, adj); err != nil {
				return err
			}
			alerts, err = postAdjustment(ctx, repos, uc.ledger, adj, userID)
			if err != nil {
				return err
			}
			if err := repos.Adjustments.UpdateStatus(ctx, adj); err != nil {
				return err
			}
			count.AdjustmentID = &adj.ID
		}
		return repos.Counts.Update(ctx, count)
	})
	if err != nil {
		return nil, err
	}

	notifyLowStock(ctx, uc.notifier, uc.log, alerts)
	ev := uc.log.Info().Int64("stock_count_id", id)
	if count.AdjustmentID != nil {
		ev = ev.Int64("adjustment_id", *count.AdjustmentID)
	}
	ev.Msg("varianza del conteo registrada")
	return toStockCountResponse(count), nil
}

func lockCount(ctx context.Context, repos Repositories, branchID, id int64) (*entity.StockCount, error) {
	count, err := repos.Counts.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if count == nil {
		return nil, domain.ErrNotFound
	}
	if count.BranchID != branchID {
		return nil, domain.ErrForbidden
	}
	return count, nil
}

func varianceNote(countID int64, line entity.StockCountItem) string {
	expected := line.Expected.String()
	actual := decimal.Zero.String()
	if line.Actual != nil {
		actual = line.Actual.String()
	}
	return fmt.Sprintf("Conteo #%d: esperado %s, contado %s", countID, expected, actual)
}
