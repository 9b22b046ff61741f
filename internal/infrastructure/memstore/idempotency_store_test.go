package memstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/idempotency"
)

// newTestStore store sin sweep en background y con reloj inyectable, para
// controlar la expiración de forma determinista.
func newTestStore() (*IdempotencyStore, *time.Time) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	s := &IdempotencyStore{
		records: make(map[string]idempotency.Record),
		now:     func() time.Time { return clock },
		done:    make(chan struct{}),
	}
	return s, &clock
}

// ──────────────────────────────────────────────────────────────────────────────

func TestSetProcessing_TestAndSet(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	ok, err := s.SetProcessing(ctx, "k1", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.SetProcessing(ctx, "k1", 30*time.Second)
	require.NoError(t, err)
	assert.False(t, ok, "la segunda adquisición sobre un lock vigente falla")
}

func TestSetProcessing_LockExpirado_PermiteNuevaAdquisicion(t *testing.T) {
	s, clock := newTestStore()
	ctx := context.Background()

	ok, err := s.SetProcessing(ctx, "k1", 30*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	// El proceso dueño del lock murió sin completar; pasado el TTL un nuevo
	// request con la misma clave debe poder proceder.
	*clock = clock.Add(31 * time.Second)

	ok, err = s.SetProcessing(ctx, "k1", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGet_ExpiradoSePurgaAlLeer(t *testing.T) {
	s, clock := newTestStore()
	ctx := context.Background()

	_, err := s.SetProcessing(ctx, "k1", 30*time.Second)
	require.NoError(t, err)

	rec, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, idempotency.StateProcessing, rec.State)

	*clock = clock.Add(time.Minute)

	rec, err = s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Empty(t, s.records, "el registro expirado se elimina en la lectura")
}

func TestComplete_PreservaCreatedAtYExtiendeTTL(t *testing.T) {
	s, clock := newTestStore()
	ctx := context.Background()

	_, err := s.SetProcessing(ctx, "k1", 30*time.Second)
	require.NoError(t, err)
	created := *clock

	*clock = clock.Add(5 * time.Second)
	err = s.Complete(ctx, "k1", idempotency.Result{Status: 201, Body: []byte(`{"id":"m1"}`)}, 24*time.Hour)
	require.NoError(t, err)

	rec, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, idempotency.StateCompleted, rec.State)
	assert.Equal(t, created, rec.CreatedAt)
	assert.Equal(t, clock.Add(24*time.Hour), rec.ExpiresAt)
	require.NotNil(t, rec.Result)
	assert.Equal(t, 201, rec.Result.Status)

	// Muy dentro de la ventana larga el replay sigue disponible
	*clock = clock.Add(23 * time.Hour)
	rec, err = s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.NotNil(t, rec)
}

func TestDelete_LiberaLaClave(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	_, err := s.SetProcessing(ctx, "k1", 30*time.Second)
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, "k1"))

	ok, err := s.SetProcessing(ctx, "k1", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSweep_PurgaSoloExpirados(t *testing.T) {
	s, clock := newTestStore()
	ctx := context.Background()

	_, err := s.SetProcessing(ctx, "corto", 30*time.Second)
	require.NoError(t, err)
	require.NoError(t, s.Complete(ctx, "largo", idempotency.Result{Status: 201}, 24*time.Hour))

	*clock = clock.Add(time.Minute)
	s.sweep()

	assert.NotContains(t, s.records, "corto")
	assert.Contains(t, s.records, "largo")
}

func TestSetProcessing_ConcurrenciaUnSoloGanador(t *testing.T) {
	s := NewIdempotencyStore(DefaultSweepInterval)
	defer s.Close()
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	wins := make(chan bool, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.SetProcessing(ctx, "k1", 30*time.Second)
			require.NoError(t, err)
			wins <- ok
		}()
	}
	wg.Wait()
	close(wins)

	ganadores := 0
	for ok := range wins {
		if ok {
			ganadores++
		}
	}
	assert.Equal(t, 1, ganadores)
}
