package repository

import "github.com/jhoicas/stock-ledger/internal/domain/entity"

// MovementFilters filtros opcionales para listar movimientos.
type MovementFilters struct {
	ProductID string
	Type      string // IN, OUT o vacío
	Limit     int
	Offset    int
}

// StockMovementRepository define el puerto del ledger de movimientos (append-only:
// sin Update ni Delete, los movimientos son inmutables).
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	List(filters MovementFilters) ([]*entity.StockMovement, error)
}
