package repository

import "github.com/jhoicas/stock-ledger/internal/domain/entity"

// StockRepository define el puerto para consultar/actualizar el saldo por producto.
// GetForUpdate se usa dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// Get devuelve el saldo o nil si el producto no tiene fila de stock.
	Get(productID string) (*entity.Stock, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE). Devuelve nil si no existe.
	GetForUpdate(productID string) (*entity.Stock, error)
	// Create provisiona la fila de stock con cantidad 0 (al registrar el producto).
	Create(productID string) error
	Update(stock *entity.Stock) error
	List() ([]*entity.StockLevel, error)
}
