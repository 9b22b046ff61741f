package usecase

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ProductTxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios de producto y stock atados a esa tx. El alta de un producto y
// la provisión de su fila de saldo (cantidad 0) deben ser atómicas.
type ProductTxRunner interface {
	RunProduct(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		stockRepo repository.StockRepository,
	) error) error
}
