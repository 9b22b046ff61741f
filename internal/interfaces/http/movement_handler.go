package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/idempotency"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Headers de idempotencia (mismos nombres que usa el cliente web).
const (
	HeaderIdempotencyKey    = "Idempotency-Key"
	HeaderIdempotencyReplay = "Idempotency-Replayed"
)

// MovementHandler maneja las peticiones HTTP del ledger de movimientos.
type MovementHandler struct {
	record      *ledger.RecordMovementUseCase
	queries     *usecase.MovementQueryUseCase
	keyStrategy idempotency.KeyStrategy
}

// NewMovementHandler construye el handler.
func NewMovementHandler(record *ledger.RecordMovementUseCase, queries *usecase.MovementQueryUseCase, keyStrategy idempotency.KeyStrategy) *MovementHandler {
	return &MovementHandler{record: record, queries: queries, keyStrategy: keyStrategy}
}

// Register godoc
// @Summary      Registrar movimiento de stock (entrada o salida)
// @Description  Aplica el movimiento de forma atómica (saldo + registro en el
//               ledger). Soporta deduplicación por Idempotency-Key: las
//               respuestas replayadas llevan el header Idempotency-Replayed.
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Clave de idempotencia (UUID)"
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, type (IN|OUT), quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id es requerido"})
	}
	if in.Quantity <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity debe ser un entero positivo"})
	}
	if !entity.ValidMovementType(in.Type) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "type debe ser IN o OUT"})
	}

	key, err := h.keyStrategy.DeriveKey(c.Get(HeaderIdempotencyKey), c.Body())
	if err != nil {
		if errors.Is(err, idempotency.ErrInvalidKey) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_IDEMPOTENCY_KEY", Message: "Idempotency-Key inválido: use formato UUID"})
		}
		return errorResponse(c, err)
	}

	res, err := h.record.RecordMovement(c.Context(), ledger.RecordMovementInput{
		ProductID:      in.ProductID,
		Type:           in.Type,
		Quantity:       in.Quantity,
		IdempotencyKey: key,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	if res.Replayed {
		c.Set(HeaderIdempotencyReplay, "true")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(res.Status).Send(res.Body)
}

// List godoc
// @Summary      Listar movimientos del ledger
// @Tags         movements
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        type        query  string  false  "IN | OUT"
// @Param        limit       query  int     false  "Tamaño de página"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.MovementResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var in dto.MovementListRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	movements, err := h.queries.List(c.Context(), in)
	if err != nil {
		return errorResponse(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.NewMovementResponse(m))
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

// GetByID godoc
// @Summary      Obtener movimiento por ID
// @Tags         movements
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	mov, err := h.queries.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.NewMovementResponse(mov))
}
