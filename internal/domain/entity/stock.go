package entity

import "time"

// Stock representa el saldo actual de un producto (una fila por producto).
// Quantity nunca es negativo; solo el motor de movimientos lo muta.
type Stock struct {
	ProductID string
	Quantity  int64
	UpdatedAt time.Time
}

// StockLevel proyección de stock con datos del producto para listados.
type StockLevel struct {
	ProductID string
	SKU       string
	Name      string
	Quantity  int64
	MinStock  int64
	UpdatedAt time.Time
}

// Low indica si el saldo está en o por debajo del mínimo configurado del producto.
func (l StockLevel) Low() bool {
	return l.MinStock > 0 && l.Quantity <= l.MinStock
}
