package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ApplyMovementUseCase aplica un movimiento de stock como unidad atómica:
// leer saldo con bloqueo de fila (SELECT FOR UPDATE), validar suficiencia en
// salidas, aplicar el delta y registrar el movimiento, con Commit/Rollback.
type ApplyMovementUseCase struct {
	txRunner TxRunner
}

// NewApplyMovementUseCase construye el caso de uso.
func NewApplyMovementUseCase(txRunner TxRunner) *ApplyMovementUseCase {
	return &ApplyMovementUseCase{txRunner: txRunner}
}

// MovementInput entrada para aplicar un movimiento. Quantity siempre positivo;
// Type (IN/OUT) codifica el signo.
type MovementInput struct {
	ProductID string
	Type      string
	Quantity  int64
}

// ApplyMovement inicia la transacción, bloquea la fila de stock, valida y
// aplica el delta, y registra el movimiento. Todo visible atómicamente o nada.
//
// El caller valida la entrada; aquí solo hay un chequeo defensivo fail-fast.
func (uc *ApplyMovementUseCase) ApplyMovement(ctx context.Context, input MovementInput) (*entity.StockMovement, error) {
	if input.ProductID == "" || input.Quantity <= 0 || !entity.ValidMovementType(input.Type) {
		return nil, domain.ErrInvalidInput
	}

	var created *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error {
		// Bloquea la fila de stock para evitar que otra transacción invalide
		// el chequeo de suficiencia entre el read y el update.
		stock, err := stockRepo.GetForUpdate(input.ProductID)
		if err != nil {
			return err
		}
		if stock == nil {
			return domain.ErrBalanceNotFound
		}

		if input.Type == entity.MovementTypeOUT && stock.Quantity < input.Quantity {
			return &domain.InsufficientStockError{
				Available: stock.Quantity,
				Requested: input.Quantity,
			}
		}

		now := time.Now()
		delta := input.Quantity
		if input.Type == entity.MovementTypeOUT {
			delta = -input.Quantity
		}
		stock.Quantity += delta
		stock.UpdatedAt = now
		if err := stockRepo.Update(stock); err != nil {
			return err
		}

		mov := &entity.StockMovement{
			ID:        uuid.New().String(),
			ProductID: input.ProductID,
			Type:      input.Type,
			Quantity:  input.Quantity,
			CreatedAt: now,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		created = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
