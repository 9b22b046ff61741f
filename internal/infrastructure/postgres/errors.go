package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// Tabla de traducción de condiciones reportadas por PostgreSQL a la taxonomía
// de errores del dominio. Mantiene la lógica de mapeo desacoplada del formato
// de códigos del motor: cambiar de store solo toca esta tabla.
var pgCodeToDomain = map[string]error{
	"23505": domain.ErrDuplicate,    // unique_violation
	"23503": domain.ErrConflict,     // foreign_key_violation
	"23514": domain.ErrInvalidInput, // check_violation (ej. quantity >= 0)
}

// translateError mapea un error del driver al dominio. Violaciones de
// constraint son fallos de negocio; todo lo demás (conexión perdida, deadlock,
// timeout, tx abortada) se reporta como fallo de infraestructura, que el
// caller puede reintentar con backoff.
func translateError(err error, op string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if mapped, ok := pgCodeToDomain[pgErr.Code]; ok {
			return mapped
		}
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrInfrastructure, op, err)
}
