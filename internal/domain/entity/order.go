package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order es la vista de una orden de venta que necesita el motor de consumo.
// La orden pertenece al módulo de ventas; aquí solo se lee y se marca como procesada.
type Order struct {
	ID                 int64
	BranchID           int64
	Status             string
	InventoryProcessed bool
	Items              []OrderItem
	CreatedAt          time.Time
}

// OrderItem línea de la orden con las opciones elegidas (ej. {"size": "large"}).
type OrderItem struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	Quantity    decimal.Decimal
	Options     map[string]string
}

// OrderConsumption registra que el inventario de una orden ya fue descontado.
// Existe como máximo una por orden (restricción única).
type OrderConsumption struct {
	ID          int64
	OrderID     int64
	BatchID     string
	ProcessedBy int64
	ProcessedAt time.Time
}
