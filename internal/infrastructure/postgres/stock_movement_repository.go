package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del ledger append-only sobre PostgreSQL
// (usable con pool o tx). Solo inserta y lee: los movimientos no se mutan.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento del ledger.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, type, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.Type, movement.Quantity, movement.CreatedAt,
	)
	if err != nil {
		return translateError(err, "insert movement")
	}
	return nil
}

// GetByID obtiene un movimiento, o nil si no existe.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, type, quantity, created_at
		FROM stock_movements WHERE id = $1`
	var m entity.StockMovement
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translateError(err, "get movement")
	}
	return &m, nil
}

// List devuelve movimientos filtrados por producto/tipo con paginación,
// del más reciente al más antiguo (el orden de inserción es el orden de auditoría).
func (r *StockMovementRepo) List(filters repository.MovementFilters) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, type, quantity, created_at
		FROM stock_movements`
	var (
		conds []string
		args  []any
	)
	if filters.ProductID != "" {
		args = append(args, filters.ProductID)
		conds = append(conds, fmt.Sprintf("product_id = $%d", len(args)))
	}
	if filters.Type != "" {
		args = append(args, filters.Type)
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
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
		return nil, translateError(err, "list movements")
	}
	defer rows.Close()

	var movements []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.CreatedAt); err != nil {
			return nil, translateError(err, "scan movement")
		}
		movements = append(movements, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "list movements")
	}
	return movements, nil
}
