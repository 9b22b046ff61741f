package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeIN  = "IN"  // entrada
	MovementTypeOUT = "OUT" // salida
)

// ValidMovementType verifica que el tipo sea uno de los reconocidos.
func ValidMovementType(t string) bool {
	return t == MovementTypeIN || t == MovementTypeOUT
}

// StockMovement representa un movimiento del ledger (entrada o salida).
// Inmutable una vez creado; Quantity siempre es positivo, el signo lo da Type.
type StockMovement struct {
	ID        string
	ProductID string
	Type      string
	Quantity  int64
	CreatedAt time.Time
}
