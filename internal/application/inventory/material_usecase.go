package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-insumos/internal/application/dto"
	"github.com/jhoicas/Inventario-insumos/internal/domain"
	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
	"github.com/jhoicas/Inventario-insumos/internal/domain/repository"
)

// MaterialUseCase alta y consulta de insumos. Quantity solo cambia vía libro.
type MaterialUseCase struct {
	txRunner TxRunner
	repos    Repositories
	ledger   *Ledger
}

// NewMaterialUseCase construye el caso de uso.
func NewMaterialUseCase(txRunner TxRunner, repos Repositories, ledger *Ledger) *MaterialUseCase {
	return &MaterialUseCase{txRunner: txRunner, repos: repos, ledger: ledger}
}

// Create crea el insumo con cantidad cero y, si hay cantidad inicial, la registra como compra.
func (uc *MaterialUseCase) Create(ctx context.Context, branchID, userID int64, in dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if branchID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	item := &entity.InventoryItem{
		BranchID:       branchID,
		Name:           strings.TrimSpace(in.Name),
		Category:       strings.TrimSpace(in.Category),
		Unit:           strings.TrimSpace(in.Unit),
		Quantity:       decimal.Zero,
		AlertThreshold: in.AlertThreshold,
		CostPrice:      in.CostPrice,
		AverageCost:    in.CostPrice,
		ExpiryDate:     in.ExpiryDate,
		Status:         entity.StockStatusFor("", decimal.Zero, in.AlertThreshold),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos Repositories) error {
		if err := repos.Items.Create(ctx, item); err != nil {
			return err
		}
		if !in.InitialQuantity.IsPositive() {
			return nil
		}
		cost := in.CostPrice
		posted, err := uc.ledger.Post(ctx, repos, LedgerEntry{
			BatchID:       uuid.New().String(),
			Type:          entity.TransactionTypePurchase,
			ReferenceType: entity.ReferenceManual,
			ItemID:        item.ID,
			Quantity:      in.InitialQuantity,
			UnitCost:      &cost,
			CreatedBy:     userID,
			Note:          "existencia inicial",
		})
		if err != nil {
			return err
		}
		item = posted.Item
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := toMaterialResponse(item)
	return &out, nil
}

// GetByID obtiene un insumo de la sucursal.
func (uc *MaterialUseCase) GetByID(ctx context.Context, branchID, id int64) (*dto.MaterialResponse, error) {
	item, err := uc.repos.Items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.BranchID != branchID {
		return nil, domain.ErrForbidden
	}
	out := toMaterialResponse(item)
	return &out, nil
}

// List devuelve los insumos de la sucursal con filtros.
func (uc *MaterialUseCase) List(ctx context.Context, branchID int64, q dto.MaterialFilterQuery) ([]dto.MaterialResponse, error) {
	if err := dto.Validate(q); err != nil {
		return nil, err
	}
	q.DefaultPage()
	items, err := uc.repos.Items.ListByBranch(ctx, branchID, repository.ItemFilter{
		Status:       q.Status,
		Category:     q.Category,
		Search:       strings.TrimSpace(q.Search),
		LowStockOnly: q.LowStock,
		Limit:        q.Limit,
		Offset:       q.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.MaterialResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toMaterialResponse(it))
	}
	return out, nil
}
