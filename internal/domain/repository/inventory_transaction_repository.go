package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
)

// TransactionFilter filtros opcionales del libro. From inclusivo, To exclusivo.
type TransactionFilter struct {
	ItemID        *int64
	BranchID      *int64
	From          *time.Time
	To            *time.Time
	Types         []string
	ReferenceType string
	ReferenceID   *int64
	Limit         int // 0 = sin límite
	Offset        int
}

// InventoryTransactionRepository puerto del libro: solo inserta y consulta, nunca actualiza ni borra.
type InventoryTransactionRepository interface {
	Append(ctx context.Context, tx *entity.InventoryTransaction) error
	List(ctx context.Context, filter TransactionFilter) ([]*entity.InventoryTransaction, error)
}
