package repository

import "github.com/jhoicas/stock-ledger/internal/domain/entity"

// ProductFilters filtros de búsqueda/paginación para productos.
type ProductFilters struct {
	Search     string // busca en name, sku y brand (case-insensitive)
	CategoryID string
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	List(filters ProductFilters) ([]*entity.Product, error)
	Delete(id string) error
}
