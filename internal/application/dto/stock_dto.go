package dto

import (
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// StockLevelResponse saldo de un producto con metadatos para listados.
type StockLevelResponse struct {
	ProductID string    `json:"product_id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Quantity  int64     `json:"quantity"`
	MinStock  int64     `json:"min_stock"`
	Low       bool      `json:"low"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewStockLevelResponse mapea la proyección de stock al DTO de respuesta.
func NewStockLevelResponse(l *entity.StockLevel) StockLevelResponse {
	return StockLevelResponse{
		ProductID: l.ProductID,
		SKU:       l.SKU,
		Name:      l.Name,
		Quantity:  l.Quantity,
		MinStock:  l.MinStock,
		Low:       l.Low(),
		UpdatedAt: l.UpdatedAt,
	}
}
