package idempotency

import "time"

// State estado de un registro de idempotencia.
type State string

const (
	// StateProcessing placeholder de corta vida que actúa como lock de exclusión
	// mutua mientras la petición original está en curso.
	StateProcessing State = "processing"
	// StateCompleted registro con la respuesta cacheada, replayable hasta expirar.
	StateCompleted State = "completed"
)

// Result respuesta replayable: status HTTP + body serializado.
type Result struct {
	Status int
	Body   []byte
}

// Record registro de idempotencia. A lo sumo uno por clave.
type Record struct {
	Key       string
	State     State
	Result    *Result // solo presente en StateCompleted
	CreatedAt time.Time
	ExpiresAt time.Time
}
