package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrBalanceNotFound     = errors.New("stock no encontrado para el producto")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrIdempotencyConflict = errors.New("petición duplicada en proceso")
	ErrInfrastructure      = errors.New("fallo de infraestructura")
)

// InsufficientStockError detalla una salida rechazada por falta de stock.
// errors.Is(err, ErrInsufficientStock) sigue funcionando para el caller.
type InsufficientStockError struct {
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d", e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
