package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/idempotency"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// RecordMovementUseCase frontera de entrada del ledger: coordina idempotencia
// y ejecución. Flujo: Check (lock o replay) → ApplyMovement → Complete con el
// resultado cacheado, o Release en cualquier fallo para no dejar un falso
// "processing" que bloquee el retry.
type RecordMovementUseCase struct {
	apply *ApplyMovementUseCase
	coord *idempotency.Coordinator
	log   *logger.Logger
}

// NewRecordMovementUseCase construye el caso de uso.
func NewRecordMovementUseCase(apply *ApplyMovementUseCase, coord *idempotency.Coordinator, log *logger.Logger) *RecordMovementUseCase {
	return &RecordMovementUseCase{apply: apply, coord: coord, log: log}
}

// RecordMovementInput entrada validada por la capa de routing. IdempotencyKey
// vacío significa que la petición no pidió deduplicación.
type RecordMovementInput struct {
	ProductID      string
	Type           string
	Quantity       int64
	IdempotencyKey string
}

// RecordMovementResult resultado replayable. En un replay Movement es nil y
// Status/Body vienen de la respuesta cacheada; Replayed lo marca distinguible.
type RecordMovementResult struct {
	Movement *entity.StockMovement
	Replayed bool
	Status   int
	Body     []byte
}

// RecordMovement registra un movimiento deduplicando por clave de idempotencia.
// Dos llamadas concurrentes con la misma clave: exactamente una ejecuta la
// transacción; la otra recibe ErrIdempotencyConflict o el resultado replayado.
func (uc *RecordMovementUseCase) RecordMovement(ctx context.Context, input RecordMovementInput) (*RecordMovementResult, error) {
	chk, err := uc.coord.Check(ctx, input.IdempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInfrastructure, err)
	}
	switch chk.Outcome {
	case idempotency.OutcomeReplay:
		uc.log.Debug().Str("key", input.IdempotencyKey).Msg("respuesta replayada desde cache de idempotencia")
		return &RecordMovementResult{
			Replayed: true,
			Status:   chk.Cached.Status,
			Body:     chk.Cached.Body,
		}, nil
	case idempotency.OutcomeConflict:
		return nil, domain.ErrIdempotencyConflict
	}

	mov, err := uc.apply.ApplyMovement(ctx, MovementInput{
		ProductID: input.ProductID,
		Type:      input.Type,
		Quantity:  input.Quantity,
	})
	if err != nil {
		// Fallo de negocio o de infraestructura: liberar el lock para que un
		// retry corregido no tenga que esperar al TTL.
		if relErr := uc.coord.Release(ctx, input.IdempotencyKey); relErr != nil {
			uc.log.Warn().Err(relErr).Str("key", input.IdempotencyKey).Msg("no se pudo liberar la clave de idempotencia")
		}
		return nil, err
	}

	body, err := json.Marshal(dto.NewMovementResponse(mov))
	if err != nil {
		return nil, fmt.Errorf("serializar movimiento: %w", err)
	}
	result := idempotency.Result{Status: http.StatusCreated, Body: body}
	if err := uc.coord.Complete(ctx, input.IdempotencyKey, result); err != nil {
		// El movimiento ya se aplicó; perder el cache solo degrada el replay.
		uc.log.Warn().Err(err).Str("key", input.IdempotencyKey).Msg("no se pudo cachear el resultado de idempotencia")
	}

	return &RecordMovementResult{
		Movement: mov,
		Status:   result.Status,
		Body:     body,
	}, nil
}
