package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ProductUseCase CRUD de productos. El alta provisiona la fila de stock del
// producto (cantidad 0) en la misma transacción; el borrado queda bloqueado
// mientras existan movimientos que lo referencien (FK en BD).
type ProductUseCase struct {
	txRunner     ProductTxRunner
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner ProductTxRunner, productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, productRepo: productRepo, categoryRepo: categoryRepo}
}

// Create registra un producto y su fila de stock en cantidad 0, atómicamente.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.ProductRequest) (*entity.Product, error) {
	if in.SKU == "" || in.Name == "" || in.Price.IsNegative() || in.MinStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	if existing, err := uc.productRepo.GetBySKU(in.SKU); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.CategoryID != "" {
		cat, err := uc.categoryRepo.GetByID(in.CategoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	product := &entity.Product{
		ID:         uuid.New().String(),
		SKU:        in.SKU,
		Name:       in.Name,
		Brand:      in.Brand,
		CategoryID: in.CategoryID,
		Price:      in.Price,
		MinStock:   in.MinStock,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err := uc.txRunner.RunProduct(ctx, func(
		productRepo repository.ProductRepository,
		stockRepo repository.StockRepository,
	) error {
		if err := productRepo.Create(product); err != nil {
			return err
		}
		return stockRepo.Create(product.ID)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// GetByID obtiene un producto. ErrNotFound si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// List devuelve productos con búsqueda, filtro por categoría y paginación.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductListRequest) ([]*entity.Product, error) {
	in.DefaultPage()
	return uc.productRepo.List(repository.ProductFilters{
		Search:     in.Search,
		CategoryID: in.CategoryID,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
}

// Update actualiza los atributos editables del producto. El saldo no se toca
// aquí: solo lo muta el motor de movimientos.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.ProductRequest) (*entity.Product, error) {
	if in.Name == "" || in.Price.IsNegative() || in.MinStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.SKU != "" && in.SKU != product.SKU {
		if existing, err := uc.productRepo.GetBySKU(in.SKU); err != nil {
			return nil, err
		} else if existing != nil {
			return nil, domain.ErrDuplicate
		}
		product.SKU = in.SKU
	}
	product.Name = in.Name
	product.Brand = in.Brand
	product.CategoryID = in.CategoryID
	product.Price = in.Price
	product.MinStock = in.MinStock
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete elimina un producto. Falla con ErrConflict si tiene movimientos
// asociados (violación de FK mapeada en la capa postgres).
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.productRepo.Delete(id)
}
