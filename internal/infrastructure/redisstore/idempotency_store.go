package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/stock-ledger/internal/application/idempotency"
)

// Script Lua para el test-and-set del lock Processing: EXISTS + HSET + PEXPIRE
// deben ser un solo paso atómico frente a otros SetProcessing con la misma clave.
var setProcessingScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
  return 0
end
redis.call("HSET", KEYS[1], "state", "processing", "created_at", ARGV[2])
redis.call("PEXPIRE", KEYS[1], ARGV[1])
return 1
`)

var _ idempotency.Store = (*IdempotencyStore)(nil)

// IdempotencyStore implementación del Store de idempotencia sobre Redis,
// para despliegues multi-instancia: el lock y la respuesta cacheada son
// visibles para todos los procesos. La expiración la maneja Redis (PEXPIRE),
// así que no necesita sweep propio.
type IdempotencyStore struct {
	client redis.UniversalClient
	prefix string
}

// NewIdempotencyStore construye el store. prefix vacío usa "idem".
func NewIdempotencyStore(client redis.UniversalClient, prefix string) *IdempotencyStore {
	if prefix == "" {
		prefix = "idem"
	}
	return &IdempotencyStore{client: client, prefix: prefix}
}

func (s *IdempotencyStore) redisKey(key string) string {
	return s.prefix + ":" + key
}

// Get devuelve el registro vigente o nil (Redis ya descartó los expirados).
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*idempotency.Record, error) {
	fields, err := s.client.HGetAll(ctx, s.redisKey(key)).Result()
	if err != nil {
		return nil, fmt.Errorf("leer registro de idempotencia: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	rec := &idempotency.Record{Key: key, State: idempotency.State(fields["state"])}
	if raw := fields["created_at"]; raw != "" {
		if unixMs, parseErr := strconv.ParseInt(raw, 10, 64); parseErr == nil {
			rec.CreatedAt = time.UnixMilli(unixMs)
		}
	}
	if ttl, ttlErr := s.client.PTTL(ctx, s.redisKey(key)).Result(); ttlErr == nil && ttl > 0 {
		rec.ExpiresAt = time.Now().Add(ttl)
	}
	if rec.State == idempotency.StateCompleted {
		status, parseErr := strconv.Atoi(fields["status"])
		if parseErr != nil {
			return nil, fmt.Errorf("status cacheado corrupto: %w", parseErr)
		}
		rec.Result = &idempotency.Result{Status: status, Body: []byte(fields["body"])}
	}
	return rec, nil
}

// SetProcessing adquiere el lock vía script Lua (atómico en Redis).
func (s *IdempotencyStore) SetProcessing(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	res, err := setProcessingScript.Run(ctx, s.client,
		[]string{s.redisKey(key)},
		ttl.Milliseconds(),
		time.Now().UnixMilli(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("adquirir lock en redis: %w", err)
	}
	return res == 1, nil
}

// Complete marca el registro Completed con la respuesta y reinicia el TTL.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, result idempotency.Result, ttl time.Duration) error {
	rkey := s.redisKey(key)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, rkey,
		"state", string(idempotency.StateCompleted),
		"status", result.Status,
		"body", result.Body,
	)
	pipe.PExpire(ctx, rkey, ttl)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("guardar resultado en redis: %w", err)
	}
	return nil
}

// Delete elimina el registro de la clave.
func (s *IdempotencyStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("eliminar clave en redis: %w", err)
	}
	return nil
}
