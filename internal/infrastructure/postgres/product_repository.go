package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, sku, name, brand, category_id, price, min_stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.SKU, product.Name, product.Brand, nullable(product.CategoryID),
		product.Price, product.MinStock, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return translateError(err, "insert product")
	}
	return nil
}

// GetByID obtiene un producto por ID, o nil si no existe.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.getBy("id", id)
}

// GetBySKU obtiene un producto por SKU, o nil si no existe.
func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	return r.getBy("sku", sku)
}

func (r *ProductRepo) getBy(column, value string) (*entity.Product, error) {
	query := fmt.Sprintf(`
		SELECT id, sku, name, brand, COALESCE(category_id, ''), price, min_stock, created_at, updated_at
		FROM products WHERE %s = $1`, column)
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, value).Scan(
		&p.ID, &p.SKU, &p.Name, &p.Brand, &p.CategoryID, &p.Price, &p.MinStock, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translateError(err, "get product")
	}
	return &p, nil
}

// Update actualiza un producto existente. El saldo no se toca aquí (se maneja vía movimientos).
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET sku = $2, name = $3, brand = $4, category_id = $5, price = $6, min_stock = $7, updated_at = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		product.ID, product.SKU, product.Name, product.Brand, nullable(product.CategoryID),
		product.Price, product.MinStock, product.UpdatedAt,
	)
	if err != nil {
		return translateError(err, "update product")
	}
	if cmd.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows, "update product: fila inexistente")
	}
	return nil
}

// List devuelve productos con búsqueda en name/sku/brand, filtro por categoría y paginación.
func (r *ProductRepo) List(filters repository.ProductFilters) ([]*entity.Product, error) {
	query := `
		SELECT id, sku, name, brand, COALESCE(category_id, ''), price, min_stock, created_at, updated_at
		FROM products`
	var (
		conds []string
		args  []any
	)
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR sku ILIKE $%d OR brand ILIKE $%d)", n, n, n))
	}
	if filters.CategoryID != "" {
		args = append(args, filters.CategoryID)
		conds = append(conds, fmt.Sprintf("category_id = $%d", len(args)))
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC"
	args = append(args, filters.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, filters.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, translateError(err, "list products")
	}
	defer rows.Close()

	var products []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Brand, &p.CategoryID, &p.Price, &p.MinStock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, translateError(err, "scan product")
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "list products")
	}
	return products, nil
}

// Delete elimina un producto. La FK de stock_movements lo bloquea si tiene
// movimientos (la violación se traduce a ErrConflict); la fila de stock cae
// en cascada (ON DELETE CASCADE en el esquema).
func (r *ProductRepo) Delete(id string) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id); err != nil {
		return translateError(err, "delete product")
	}
	return nil
}

// nullable convierte cadena vacía en NULL para columnas FK opcionales.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
