package idempotency

import (
	"context"
	"time"
)

// Store puerto de persistencia de registros de idempotencia. Implementable
// sobre un mapa en memoria (una sola instancia) o sobre un store compartido
// como Redis (multi-instancia); el coordinador no asume estado local al proceso.
type Store interface {
	// Get devuelve el registro vigente para la clave, o nil si no existe o expiró.
	Get(ctx context.Context, key string) (*Record, error)
	// SetProcessing intenta adquirir el lock: inserta el registro Processing con
	// TTL corto solo si la clave no existe. Test-and-set atómico respecto a otros
	// SetProcessing concurrentes sobre la misma clave. Devuelve true si lo adquirió.
	SetProcessing(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Complete guarda la respuesta y marca el registro Completed, reiniciando la
	// expiración al TTL largo.
	Complete(ctx context.Context, key string, result Result, ttl time.Duration) error
	// Delete elimina el registro (libera el lock para permitir un retry).
	Delete(ctx context.Context, key string) error
}
