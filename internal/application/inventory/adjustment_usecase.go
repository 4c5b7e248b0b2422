package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-insumos/internal/application/dto"
	"github.com/jhoicas/Inventario-insumos/internal/domain"
	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
	"github.com/jhoicas/Inventario-insumos/pkg/logger"
)

// AdjustmentUseCase flujo de ajustes manuales: se crean pendientes y solo la aprobación
// los lleva al libro, en la misma transacción que cambia el estado.
type AdjustmentUseCase struct {
	txRunner TxRunner
	repos    Repositories
	ledger   *Ledger
	notifier LowStockNotifier
	log      *logger.Logger
	now      func() time.Time
}

// NewAdjustmentUseCase construye el caso de uso.
func NewAdjustmentUseCase(txRunner TxRunner, repos Repositories, ledger *Ledger, notifier LowStockNotifier, log *logger.Logger) *AdjustmentUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AdjustmentUseCase{
		txRunner: txRunner,
		repos:    repos,
		ledger:   ledger,
		notifier: notifier,
		log:      log.Named("adjustments"),
		now:      time.Now,
	}
}

// Create registra un ajuste pendiente. Todos los insumos deben ser de la sucursal.
func (uc *AdjustmentUseCase) Create(ctx context.Context, branchID, userID int64, in dto.CreateAdjustmentRequest) (*dto.AdjustmentResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: el motivo es obligatorio", domain.ErrInvalidInput)
	}

	adj := &entity.InventoryAdjustment{
		BranchID:  branchID,
		Reason:    reason,
		Status:    entity.AdjustmentPending,
		CreatedBy: userID,
		Notes:     in.Notes,
		CreatedAt: uc.now(),
	}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos Repositories) error {
		for _, line := range in.Items {
			item, err := repos.Items.GetByID(ctx, line.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return fmt.Errorf("insumo %d: %w", line.ItemID, domain.ErrNotFound)
			}
			if item.BranchID != branchID {
				return fmt.Errorf("insumo %d: %w", line.ItemID, domain.ErrForbidden)
			}
			cost := item.UnitCost()
			if line.UnitCost != nil {
				cost = *line.UnitCost
			}
			adj.Items = append(adj.Items, entity.InventoryAdjustmentItem{
				ItemID:   line.ItemID,
				Quantity: line.Quantity,
				UnitCost: cost,
				Note:     line.Note,
			})
		}
		return repos.Adjustments.Create(ctx, adj)
	})
	if err != nil {
		return nil, err
	}
	return toAdjustmentResponse(adj), nil
}

// Get obtiene un ajuste de la sucursal.
func (uc *AdjustmentUseCase) Get(ctx context.Context, branchID, id int64) (*dto.AdjustmentResponse, error) {
	adj, err := uc.repos.Adjustments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if adj == nil {
		return nil, domain.ErrNotFound
	}
	if adj.BranchID != branchID {
		return nil, domain.ErrForbidden
	}
	return toAdjustmentResponse(adj), nil
}

// Approve pasa el ajuste de pending a approved y registra sus líneas en el libro
// como transacciones adjustment. El aprobador no puede ser quien lo creó.
func (uc *AdjustmentUseCase) Approve(ctx context.Context, branchID, approverID, id int64, notes string) (*dto.AdjustmentResponse, error) {
	var (
		adj    *entity.InventoryAdjustment
		alerts []entity.LowStockEvent
	)
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos Repositories) error {
		var err error
		adj, err = uc.lockPending(ctx, repos, branchID, id)
		if err != nil {
			return err
		}
		if adj.CreatedBy == approverID {
			return fmt.Errorf("%w: quien crea el ajuste no puede aprobarlo", domain.ErrForbidden)
		}
		now := uc.now()
		adj.Status = entity.AdjustmentApproved
		adj.ApprovedBy = &approverID
		adj.ReviewedAt = &now
		if notes != "" {
			adj.Notes = notes
		}
		alerts, err = postAdjustment(ctx, repos, uc.ledger, adj, approverID)
		if err != nil {
			return err
		}
		return repos.Adjustments.UpdateStatus(ctx, adj)
	})
	if err != nil {
		return nil, err
	}

	notifyLowStock(ctx, uc.notifier, uc.log, alerts)
	uc.log.Info().
		Int64("adjustment_id", adj.ID).
		Int64("approved_by", approverID).
		Int("lines", len(adj.Items)).
		Str("batch_id", adj.BatchID).
		Msg("ajuste aprobado")
	return toAdjustmentResponse(adj), nil
}

// Reject pasa el ajuste de pending a rejected sin tocar el libro.
func (uc *AdjustmentUseCase) Reject(ctx context.Context, branchID, reviewerID, id int64, notes string) (*dto.AdjustmentResponse, error) {
	var adj *entity.InventoryAdjustment
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos Repositories) error {
		var err error
		adj, err = uc.lockPending(ctx, repos, branchID, id)
		if err != nil {
			return err
		}
		now := uc.now()
		adj.Status = entity.AdjustmentRejected
		adj.ApprovedBy = &reviewerID
		adj.ReviewedAt = &now
		if notes != "" {
			adj.Notes = notes
		}
		return repos.Adjustments.UpdateStatus(ctx, adj)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("adjustment_id", adj.ID).Int64("reviewed_by", reviewerID).Msg("ajuste rechazado")
	return toAdjustmentResponse(adj), nil
}

func (uc *AdjustmentUseCase) lockPending(ctx context.Context, repos Repositories, branchID, id int64) (*entity.InventoryAdjustment, error) {
	adj, err := repos.Adjustments.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if adj == nil {
		return nil, domain.ErrNotFound
	}
	if adj.BranchID != branchID {
		return nil, domain.ErrForbidden
	}
	if adj.Status != entity.AdjustmentPending {
		return nil, fmt.Errorf("%w: ajuste en estado %s", domain.ErrInvalidTransition, adj.Status)
	}
	return adj, nil
}

// postAdjustment registra cada línea del ajuste como transacción adjustment bajo un mismo lote.
// Debe llamarse dentro de la transacción que deja el ajuste en approved.
func postAdjustment(ctx context.Context, repos Repositories, ledger *Ledger, adj *entity.InventoryAdjustment, userID int64) ([]entity.LowStockEvent, error) {
	adj.BatchID = uuid.New().String()
	var alerts []entity.LowStockEvent
	for i := range adj.Items {
		line := adj.Items[i]
		cost := line.UnitCost
		posted, err := ledger.Post(ctx, repos, LedgerEntry{
			BatchID:       adj.BatchID,
			Type:          entity.TransactionTypeAdjustment,
			ReferenceType: entity.ReferenceAdjustment,
			ReferenceID:   adj.ID,
			ItemID:        line.ItemID,
			Quantity:      line.Quantity,
			UnitCost:      &cost,
			CreatedBy:     userID,
			Note:          adjustmentNote(adj, line),
		})
		if err != nil {
			return nil, fmt.Errorf("ajuste %d, insumo %d: %w", adj.ID, line.ItemID, err)
		}
		if posted.LowStock != nil {
			alerts = append(alerts, *posted.LowStock)
		}
	}
	return alerts, nil
}

func adjustmentNote(adj *entity.InventoryAdjustment, line entity.InventoryAdjustmentItem) string {
	if line.Note != "" {
		return line.Note
	}
	return fmt.Sprintf("Ajuste #%d: %s", adj.ID, adj.Reason)
}
