package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-insumos/internal/application/dto"
	"github.com/jhoicas/Inventario-insumos/internal/domain"
	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
	"github.com/jhoicas/Inventario-insumos/internal/domain/inventory"
	"github.com/jhoicas/Inventario-insumos/internal/domain/repository"
	"github.com/jhoicas/Inventario-insumos/pkg/logger"
)

// RegisterMovementUseCase registra movimientos manuales del libro (compra, merma, traslado)
// de forma transaccional: bloqueo de fila del insumo, delta atómico y Commit/Rollback.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	repos    Repositories
	ledger   *Ledger
	notifier LowStockNotifier
	log      *logger.Logger
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner, repos Repositories, ledger *Ledger, notifier LowStockNotifier, log *logger.Logger) *RegisterMovementUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &RegisterMovementUseCase{
		txRunner: txRunner,
		repos:    repos,
		ledger:   ledger,
		notifier: notifier,
		log:      log.Named("movements"),
	}
}

// MovementInputDTO entrada para registrar un movimiento manual.
// Quantity es la magnitud: purchase suma, waste y transfer (salida de la sucursal) restan.
type MovementInputDTO struct {
	BranchID int64
	UserID   int64
	ItemID   int64
	Type     string
	Quantity decimal.Decimal
	UnitCost *decimal.Decimal
	Note     string
}

// RegisterMovementFromRequest adapta el request HTTP al caso de uso.
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, branchID, userID int64, in dto.RegisterMovementRequest) (*dto.PostedMovementResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	return uc.RegisterMovement(ctx, MovementInputDTO{
		BranchID: branchID,
		UserID:   userID,
		ItemID:   in.ItemID,
		Type:     in.Type,
		Quantity: in.Quantity,
		UnitCost: in.UnitCost,
		Note:     in.Note,
	})
}

// RegisterMovement valida, verifica que el insumo sea de la sucursal y registra el delta.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) (*dto.PostedMovementResponse, error) {
	if input.ItemID <= 0 || !input.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	delta := input.Quantity
	switch input.Type {
	case entity.TransactionTypePurchase:
		if input.UnitCost != nil && input.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	case entity.TransactionTypeWaste, entity.TransactionTypeTransfer:
		delta = delta.Neg()
	default:
		return nil, domain.ErrInvalidInput
	}

	item, err := uc.repos.Items.GetByID(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.BranchID != input.BranchID {
		return nil, domain.ErrForbidden
	}

	var posted *PostedEntry
	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos Repositories) error {
		p, err := uc.ledger.Post(ctx, repos, LedgerEntry{
			BatchID:       uuid.New().String(),
			Type:          input.Type,
			ReferenceType: entity.ReferenceManual,
			ItemID:        input.ItemID,
			Quantity:      delta,
			UnitCost:      input.UnitCost,
			CreatedBy:     input.UserID,
			Note:          input.Note,
		})
		posted = p
		return err
	})
	if err != nil {
		return nil, err
	}
	if posted.LowStock != nil {
		notifyLowStock(ctx, uc.notifier, uc.log, []entity.LowStockEvent{*posted.LowStock})
	}
	return &dto.PostedMovementResponse{
		Transaction:       toTransactionResponse(posted.Transaction),
		RemainingQuantity: posted.Item.Quantity,
		LowStock:          posted.LowStock != nil,
	}, nil
}

// ListMovements consulta el libro de la sucursal. Las fechas son días calendario en loc; To es inclusivo.
func (uc *RegisterMovementUseCase) ListMovements(ctx context.Context, branchID int64, q dto.MovementFilterQuery, loc *time.Location) ([]dto.TransactionResponse, error) {
	q.DefaultPage()
	filter := repository.TransactionFilter{
		BranchID: &branchID,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
	if q.ItemID > 0 {
		filter.ItemID = &q.ItemID
	}
	if q.Type != "" {
		if !entity.ValidTransactionType(q.Type) {
			return nil, domain.ErrInvalidInput
		}
		filter.Types = []string{q.Type}
	}
	if q.From != "" {
		d, err := time.ParseInLocation(dateLayout, q.From, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: from", domain.ErrInvalidInput)
		}
		start, _ := inventory.DayBounds(d, loc)
		filter.From = &start
	}
	if q.To != "" {
		d, err := time.ParseInLocation(dateLayout, q.To, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: to", domain.ErrInvalidInput)
		}
		_, end := inventory.DayBounds(d, loc)
		filter.To = &end
	}
	list, err := uc.repos.Transactions.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionResponse, 0, len(list))
	for _, tx := range list {
		out = append(out, toTransactionResponse(tx))
	}
	return out, nil
}
