package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción del libro de inventario.
const (
	TransactionTypePurchase   = "purchase"   // entrada por compra
	TransactionTypeSale       = "sale"       // consumo por venta
	TransactionTypeAdjustment = "adjustment" // ajuste manual o por conteo
	TransactionTypeTransfer   = "transfer"   // traslado (sin conciliación entre sucursales)
	TransactionTypeWaste      = "waste"      // merma
)

// Tipos de referencia al origen de la transacción.
const (
	ReferenceOrder      = "order"
	ReferenceAdjustment = "adjustment"
	ReferenceStockCount = "stock_count"
	ReferenceManual     = "manual"
)

// InventoryTransaction es una entrada inmutable del libro: delta con signo sobre un insumo.
// Quantity positiva suma al snapshot; negativa descuenta.
type InventoryTransaction struct {
	ID            int64
	BatchID       string // agrupa las entradas escritas por una misma operación
	Type          string
	ReferenceType string
	ReferenceID   int64
	ItemID        int64
	BranchID      int64
	Quantity      decimal.Decimal
	Unit          string
	UnitCost      decimal.Decimal
	CreatedBy     int64
	CreatedAt     time.Time
	Note          string
}

// ValidTransactionType indica si t es un tipo de transacción conocido.
func ValidTransactionType(t string) bool {
	switch t {
	case TransactionTypePurchase, TransactionTypeSale, TransactionTypeAdjustment,
		TransactionTypeTransfer, TransactionTypeWaste:
		return true
	}
	return false
}
