package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/idempotency"
)

// DefaultSweepInterval cada cuánto se purgan registros expirados.
const DefaultSweepInterval = 5 * time.Minute

var _ idempotency.Store = (*IdempotencyStore)(nil)

// IdempotencyStore implementación en memoria del Store de idempotencia,
// para despliegues de una sola instancia. Purga registros expirados en
// background; en multi-instancia usar el store sobre Redis.
type IdempotencyStore struct {
	mu        sync.Mutex
	records   map[string]idempotency.Record
	now       func() time.Time
	done      chan struct{}
	closeOnce sync.Once
}

// NewIdempotencyStore construye el store y arranca el sweep periódico.
// sweepInterval <= 0 usa el intervalo por defecto. Llamar Close al terminar.
func NewIdempotencyStore(sweepInterval time.Duration) *IdempotencyStore {
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}
	s := &IdempotencyStore{
		records: make(map[string]idempotency.Record),
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go s.sweepLoop(sweepInterval)
	return s
}

// Get devuelve el registro vigente o nil. Los expirados se eliminan al leerlos,
// sin esperar al sweep.
func (s *IdempotencyStore) Get(_ context.Context, key string) (*idempotency.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	if s.now().After(rec.ExpiresAt) {
		delete(s.records, key)
		return nil, nil
	}
	out := rec
	return &out, nil
}

// SetProcessing test-and-set bajo el mutex: dos peticiones concurrentes con la
// misma clave nunca adquieren las dos el lock.
func (s *IdempotencyStore) SetProcessing(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if rec, ok := s.records[key]; ok && now.Before(rec.ExpiresAt) {
		return false, nil
	}
	s.records[key] = idempotency.Record{
		Key:       key,
		State:     idempotency.StateProcessing,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	return true, nil
}

// Complete guarda la respuesta con el TTL largo. Escribe aunque el registro
// Processing haya expirado entre medias: el resultado sigue siendo replayable.
func (s *IdempotencyStore) Complete(_ context.Context, key string, result idempotency.Result, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	created := now
	if rec, ok := s.records[key]; ok {
		created = rec.CreatedAt
	}
	s.records[key] = idempotency.Record{
		Key:       key,
		State:     idempotency.StateCompleted,
		Result:    &idempotency.Result{Status: result.Status, Body: result.Body},
		CreatedAt: created,
		ExpiresAt: now.Add(ttl),
	}
	return nil
}

// Delete elimina el registro de la clave.
func (s *IdempotencyStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

// Close detiene el sweep en background.
func (s *IdempotencyStore) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *IdempotencyStore) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.done:
			return
		}
	}
}

// sweep purga registros expirados sin importar su estado.
func (s *IdempotencyStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for key, rec := range s.records {
		if now.After(rec.ExpiresAt) {
			delete(s.records, key)
		}
	}
}
