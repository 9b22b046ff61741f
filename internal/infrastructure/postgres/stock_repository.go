package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el saldo de un producto, o nil si no tiene fila de stock.
func (r *StockRepo) Get(productID string) (*entity.Stock, error) {
	query := `
		SELECT product_id, quantity, updated_at
		FROM stock WHERE product_id = $1`
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, productID).Scan(
		&s.ProductID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translateError(err, "get stock")
	}
	return &s, nil
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE) para que
// el chequeo de suficiencia y el update sean serializables por producto.
// Devuelve nil si el producto no tiene fila de stock.
func (r *StockRepo) GetForUpdate(productID string) (*entity.Stock, error) {
	query := `
		SELECT product_id, quantity, updated_at
		FROM stock WHERE product_id = $1
		FOR UPDATE`
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, productID).Scan(
		&s.ProductID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translateError(err, "get stock for update")
	}
	return &s, nil
}

// Create provisiona la fila de saldo del producto en cantidad 0.
func (r *StockRepo) Create(productID string) error {
	query := `
		INSERT INTO stock (product_id, quantity, updated_at)
		VALUES ($1, 0, now())`
	if _, err := r.q.Exec(context.Background(), query, productID); err != nil {
		return translateError(err, "insert stock")
	}
	return nil
}

// Update persiste el saldo ya mutado por el motor del ledger.
func (r *StockRepo) Update(stock *entity.Stock) error {
	query := `
		UPDATE stock SET quantity = $2, updated_at = $3
		WHERE product_id = $1`
	cmd, err := r.q.Exec(context.Background(), query, stock.ProductID, stock.Quantity, stock.UpdatedAt)
	if err != nil {
		return translateError(err, "update stock")
	}
	if cmd.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows, "update stock: fila inexistente")
	}
	return nil
}

// List devuelve los saldos con datos del producto para el listado de stock.
func (r *StockRepo) List() ([]*entity.StockLevel, error) {
	query := `
		SELECT s.product_id, p.sku, p.name, s.quantity, p.min_stock, s.updated_at
		FROM stock s
		JOIN products p ON p.id = s.product_id
		ORDER BY p.name ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, translateError(err, "list stock")
	}
	defer rows.Close()

	var levels []*entity.StockLevel
	for rows.Next() {
		var l entity.StockLevel
		if err := rows.Scan(&l.ProductID, &l.SKU, &l.Name, &l.Quantity, &l.MinStock, &l.UpdatedAt); err != nil {
			return nil, translateError(err, "scan stock level")
		}
		levels = append(levels, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "list stock")
	}
	return levels, nil
}
