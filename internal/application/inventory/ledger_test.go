package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-insumos/internal/application/dto"
	"github.com/jhoicas/Inventario-insumos/internal/domain"
	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
	"github.com/jhoicas/Inventario-insumos/pkg/logger"
)

func TestLedgerPost_ValidaSignoSegunTipo(t *testing.T) {
	store := newMemStore()
	id := store.addItem(entity.InventoryItem{BranchID: testBranch, Name: "Leche", Unit: "ml", Quantity: dec("100")})
	ledger := NewLedger(logger.Nop())
	repos := store.repos()

	cases := []struct {
		name  string
		entry LedgerEntry
	}{
		{"compra negativa", LedgerEntry{Type: entity.TransactionTypePurchase, ItemID: id, Quantity: dec("-1")}},
		{"venta positiva", LedgerEntry{Type: entity.TransactionTypeSale, ItemID: id, Quantity: dec("1")}},
		{"merma positiva", LedgerEntry{Type: entity.TransactionTypeWaste, ItemID: id, Quantity: dec("1")}},
		{"delta cero", LedgerEntry{Type: entity.TransactionTypeAdjustment, ItemID: id, Quantity: dec("0")}},
		{"tipo desconocido", LedgerEntry{Type: "gift", ItemID: id, Quantity: dec("1")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ledger.Post(context.Background(), repos, tc.entry)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, store.transactions())

	_, err := ledger.Post(context.Background(), repos, LedgerEntry{Type: entity.TransactionTypeSale, ItemID: 999, Quantity: dec("-1")})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedgerPost_CompraConCostoRecalculaPromedio(t *testing.T) {
	store := newMemStore()
	id := store.addItem(entity.InventoryItem{
		BranchID: testBranch, Name: "Azúcar", Unit: "g",
		Quantity: dec("100"), CostPrice: dec("10"), AverageCost: dec("10"),
	})
	cost := dec("20")
	posted, err := NewLedger(logger.Nop()).Post(context.Background(), store.repos(), LedgerEntry{
		Type: entity.TransactionTypePurchase, ItemID: id, Quantity: dec("100"), UnitCost: &cost,
	})
	require.NoError(t, err)
	assert.True(t, posted.Item.Quantity.Equal(dec("200")))
	assert.True(t, store.item(id).AverageCost.Equal(dec("15")), "promedio: %s", store.item(id).AverageCost)
	assert.True(t, posted.Transaction.UnitCost.Equal(dec("20")))
	assert.Nil(t, posted.LowStock, "una entrada nunca dispara alerta")
}

// Reproducir el libro desde cero debe dar exactamente el snapshot de cada insumo.
func TestLedger_ReplayCoincideConSnapshot(t *testing.T) {
	f := newConsumptionFixture(t)
	ctx := context.Background()
	// Los insumos del fixture nacen con existencia sin movimientos; se crean otros desde cero.
	materials := NewMaterialUseCase(f.runner, f.store.repos(), NewLedger(logger.Nop()))
	milk, err := materials.Create(ctx, testBranch, testUser, dto.CreateMaterialRequest{
		Name: "Leche", Unit: "ml", InitialQuantity: dec("2000"), CostPrice: dec("0.004"), AlertThreshold: dec("200"),
	})
	require.NoError(t, err)
	cups, err := materials.Create(ctx, testBranch, testUser, dto.CreateMaterialRequest{
		Name: "Vasos", Unit: "unidad", InitialQuantity: dec("50"),
	})
	require.NoError(t, err)

	f.store.addRule(entity.ConsumptionRule{ProductID: 300, MaterialID: milk.ID, Quantity: dec("180"), Unit: "ml", WasteFactor: dec("0.05"), IsActive: true})
	f.store.addRule(entity.ConsumptionRule{ProductID: 300, MaterialID: cups.ID, Quantity: dec("1"), Unit: "unidad", IsActive: true})
	f.order(20, entity.OrderItem{ProductID: 300, Quantity: dec("4")})
	_, err = f.uc.ProcessOrderConsumption(ctx, testBranch, 20, testUser)
	require.NoError(t, err)

	movements := NewRegisterMovementUseCase(f.runner, f.store.repos(), NewLedger(logger.Nop()), f.notifier, logger.Nop())
	_, err = movements.RegisterMovement(ctx, MovementInputDTO{BranchID: testBranch, UserID: testUser, ItemID: milk.ID, Type: entity.TransactionTypeWaste, Quantity: dec("75.5")})
	require.NoError(t, err)
	_, err = movements.RegisterMovement(ctx, MovementInputDTO{BranchID: testBranch, UserID: testUser, ItemID: cups.ID, Type: entity.TransactionTypeTransfer, Quantity: dec("10")})
	require.NoError(t, err)
	_, err = movements.RegisterMovement(ctx, MovementInputDTO{BranchID: testBranch, UserID: testUser, ItemID: milk.ID, Type: entity.TransactionTypePurchase, Quantity: dec("1000")})
	require.NoError(t, err)

	sums := map[int64]string{}
	for _, tx := range f.store.transactions() {
		cur := dec("0")
		if s, ok := sums[tx.ItemID]; ok {
			cur = dec(s)
		}
		sums[tx.ItemID] = cur.Add(tx.Quantity).String()
	}
	for _, id := range []int64{milk.ID, cups.ID} {
		assert.True(t, dec(sums[id]).Equal(f.store.item(id).Quantity), "insumo %d: libro %s vs snapshot %s", id, sums[id], f.store.item(id).Quantity)
	}
	// 2000 - 720 - 36 - 75.5 + 1000
	assert.True(t, f.store.item(milk.ID).Quantity.Equal(dec("2168.5")))
	assert.True(t, f.store.item(cups.ID).Quantity.Equal(dec("36")))
}

func TestRegisterMovement_InsumoDeOtraSucursal(t *testing.T) {
	store := newMemStore()
	id := store.addItem(entity.InventoryItem{BranchID: 2, Name: "Harina", Unit: "g", Quantity: dec("10")})
	uc := NewRegisterMovementUseCase(&memTxRunner{store: store}, store.repos(), NewLedger(nil), nil, nil)

	_, err := uc.RegisterMovement(context.Background(), MovementInputDTO{
		BranchID: testBranch, UserID: testUser, ItemID: id, Type: entity.TransactionTypeWaste, Quantity: dec("1"),
	})
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.RegisterMovement(context.Background(), MovementInputDTO{
		BranchID: 2, UserID: testUser, ItemID: id, Type: entity.TransactionTypeSale, Quantity: dec("1"),
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput, "las ventas solo entran por órdenes")
}
