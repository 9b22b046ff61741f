package dto

import (
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// RegisterMovementRequest cuerpo para registrar un movimiento (IN/OUT).
type RegisterMovementRequest struct {
	ProductID string `json:"product_id"`
	Type      string `json:"type"` // IN | OUT
	Quantity  int64  `json:"quantity"`
}

// MovementResponse representación HTTP de un movimiento del ledger.
type MovementResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Type      string    `json:"type"`
	Quantity  int64     `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMovementResponse mapea la entidad al DTO de respuesta.
func NewMovementResponse(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		Type:      m.Type,
		Quantity:  m.Quantity,
		CreatedAt: m.CreatedAt,
	}
}

// MovementListRequest filtros de listado de movimientos.
type MovementListRequest struct {
	PageRequest
	ProductID string `query:"product_id"`
	Type      string `query:"type"`
}
