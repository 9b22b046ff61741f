package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
)

// StockHandler maneja las consultas de saldo (solo lectura).
type StockHandler struct {
	uc *usecase.StockQueryUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *usecase.StockQueryUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// List godoc
// @Summary      Listar saldos de stock
// @Tags         stock
// @Produce      json
// @Success      200  {array}  dto.StockLevelResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	levels, err := h.uc.List(c.Context())
	if err != nil {
		return errorResponse(c, err)
	}
	out := make([]dto.StockLevelResponse, 0, len(levels))
	for _, l := range levels {
		out = append(out, dto.NewStockLevelResponse(l))
	}
	return c.JSON(fiber.Map{"total": len(out), "stock": out})
}

// GetByProduct godoc
// @Summary      Obtener saldo de un producto
// @Tags         stock
// @Produce      json
// @Param        product_id  path  string  true  "ID del producto"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{product_id} [get]
func (h *StockHandler) GetByProduct(c *fiber.Ctx) error {
	stock, err := h.uc.GetByProduct(c.Context(), c.Params("product_id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"product_id": stock.ProductID,
		"quantity":   stock.Quantity,
		"updated_at": stock.UpdatedAt,
	})
}
