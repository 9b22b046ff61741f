package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ProductRequest cuerpo para crear/actualizar un producto.
type ProductRequest struct {
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Brand      string          `json:"brand"`
	CategoryID string          `json:"category_id"`
	Price      decimal.Decimal `json:"price"`
	MinStock   int64           `json:"min_stock"`
}

// ProductResponse representación HTTP de un producto.
type ProductResponse struct {
	ID         string          `json:"id"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Brand      string          `json:"brand,omitempty"`
	CategoryID string          `json:"category_id,omitempty"`
	Price      decimal.Decimal `json:"price"`
	MinStock   int64           `json:"min_stock"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// NewProductResponse mapea la entidad al DTO de respuesta.
func NewProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:         p.ID,
		SKU:        p.SKU,
		Name:       p.Name,
		Brand:      p.Brand,
		CategoryID: p.CategoryID,
		Price:      p.Price,
		MinStock:   p.MinStock,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// ProductListRequest filtros de listado de productos.
type ProductListRequest struct {
	PageRequest
	Search     string `query:"search"`
	CategoryID string `query:"category_id"`
}
