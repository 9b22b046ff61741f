package idempotency

import (
	"context"
	"fmt"
	"time"
)

// TTLs por defecto: el lock Processing debe autoexpirar rápido para no dejar
// deadlocks si el proceso muere a mitad de transacción; la respuesta cacheada
// vive mucho más para absorber retries del cliente.
const (
	DefaultProcessingTTL = 30 * time.Second
	DefaultResultTTL     = 24 * time.Hour
)

// Outcome resultado de Check para una clave.
type Outcome int

const (
	// OutcomeProceed el caller debe ejecutar la operación (lock adquirido, o sin clave).
	OutcomeProceed Outcome = iota
	// OutcomeReplay existe una respuesta cacheada: devolverla marcada como replay.
	OutcomeReplay
	// OutcomeConflict otra ejecución con la misma clave está en curso: rechazar.
	OutcomeConflict
)

// CheckResult decisión del coordinador. Cached solo está presente en OutcomeReplay.
type CheckResult struct {
	Outcome Outcome
	Cached  *Result
}

// Coordinator deduplica operaciones de escritura por clave de idempotencia:
// garantiza a lo sumo una ejecución en vuelo por clave y replay del resultado
// cacheado para repeticiones dentro de la ventana de TTL.
type Coordinator struct {
	store         Store
	processingTTL time.Duration
	resultTTL     time.Duration
}

// Config TTLs del coordinador; cero aplica los valores por defecto.
type Config struct {
	ProcessingTTL time.Duration
	ResultTTL     time.Duration
}

// NewCoordinator construye el coordinador sobre el store inyectado.
func NewCoordinator(store Store, cfg Config) *Coordinator {
	if cfg.ProcessingTTL <= 0 {
		cfg.ProcessingTTL = DefaultProcessingTTL
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = DefaultResultTTL
	}
	return &Coordinator{store: store, processingTTL: cfg.ProcessingTTL, resultTTL: cfg.ResultTTL}
}

// Check decide qué hacer con una clave: Proceed, Replay o Conflict.
// Clave vacía significa que el caller no pidió idempotencia: siempre Proceed.
func (c *Coordinator) Check(ctx context.Context, key string) (CheckResult, error) {
	if key == "" {
		return CheckResult{Outcome: OutcomeProceed}, nil
	}

	rec, err := c.store.Get(ctx, key)
	if err != nil {
		return CheckResult{}, fmt.Errorf("consultar registro de idempotencia: %w", err)
	}
	if rec != nil {
		return c.resolve(rec), nil
	}

	acquired, err := c.store.SetProcessing(ctx, key, c.processingTTL)
	if err != nil {
		return CheckResult{}, fmt.Errorf("adquirir lock de idempotencia: %w", err)
	}
	if acquired {
		return CheckResult{Outcome: OutcomeProceed}, nil
	}

	// Otro request se adelantó entre el Get y el SetProcessing: releer para
	// distinguir si ya terminó (replay) o sigue en vuelo (conflict).
	rec, err = c.store.Get(ctx, key)
	if err != nil {
		return CheckResult{}, fmt.Errorf("consultar registro de idempotencia: %w", err)
	}
	if rec == nil {
		return CheckResult{Outcome: OutcomeConflict}, nil
	}
	return c.resolve(rec), nil
}

func (c *Coordinator) resolve(rec *Record) CheckResult {
	if rec.State == StateCompleted && rec.Result != nil {
		return CheckResult{Outcome: OutcomeReplay, Cached: rec.Result}
	}
	return CheckResult{Outcome: OutcomeConflict}
}

// Complete transiciona el registro Processing a Completed guardando la respuesta.
// No-op si la clave está vacía (no se pidió idempotencia).
func (c *Coordinator) Complete(ctx context.Context, key string, result Result) error {
	if key == "" {
		return nil
	}
	if err := c.store.Complete(ctx, key, result, c.resultTTL); err != nil {
		return fmt.Errorf("guardar resultado de idempotencia: %w", err)
	}
	return nil
}

// Release elimina el registro de la clave. Se usa en fallos, para que un retry
// corregido pueda proceder sin esperar a que expire el lock.
func (c *Coordinator) Release(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := c.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("liberar clave de idempotencia: %w", err)
	}
	return nil
}
