package usecase

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// StockQueryUseCase consultas de saldo (solo lectura; la mutación va por el ledger).
type StockQueryUseCase struct {
	stockRepo repository.StockRepository
}

// NewStockQueryUseCase construye el caso de uso.
func NewStockQueryUseCase(stockRepo repository.StockRepository) *StockQueryUseCase {
	return &StockQueryUseCase{stockRepo: stockRepo}
}

// List devuelve los saldos de todos los productos con su bandera de stock bajo.
func (uc *StockQueryUseCase) List(ctx context.Context) ([]*entity.StockLevel, error) {
	return uc.stockRepo.List()
}

// GetByProduct devuelve el saldo de un producto. ErrBalanceNotFound si no existe.
func (uc *StockQueryUseCase) GetByProduct(ctx context.Context, productID string) (*entity.Stock, error) {
	stock, err := uc.stockRepo.Get(productID)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, domain.ErrBalanceNotFound
	}
	return stock, nil
}

// MovementQueryUseCase consultas del ledger de movimientos (solo lectura).
type MovementQueryUseCase struct {
	movRepo repository.StockMovementRepository
}

// NewMovementQueryUseCase construye el caso de uso.
func NewMovementQueryUseCase(movRepo repository.StockMovementRepository) *MovementQueryUseCase {
	return &MovementQueryUseCase{movRepo: movRepo}
}

// List devuelve movimientos con filtros por producto/tipo y paginación,
// ordenados del más reciente al más antiguo.
func (uc *MovementQueryUseCase) List(ctx context.Context, in dto.MovementListRequest) ([]*entity.StockMovement, error) {
	in.DefaultPage()
	if in.Type != "" && !entity.ValidMovementType(in.Type) {
		return nil, domain.ErrInvalidInput
	}
	return uc.movRepo.List(repository.MovementFilters{
		ProductID: in.ProductID,
		Type:      in.Type,
		Limit:     in.Limit,
		Offset:    in.Offset,
	})
}

// GetByID obtiene un movimiento. ErrNotFound si no existe.
func (uc *MovementQueryUseCase) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	mov, err := uc.movRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	return mov, nil
}
