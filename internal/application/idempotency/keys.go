package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidKey la clave explícita enviada por el cliente no tiene formato UUID.
var ErrInvalidKey = errors.New("idempotency key inválida: se espera formato UUID")

// KeyStrategy deriva la clave de idempotencia de una petición entrante.
// Clave vacía (sin error) significa "sin idempotencia" para esa petición.
//
// Las dos estrategias tienen semánticas de colisión distintas y por eso son
// configuraciones alternativas, nunca se combinan: la clave explícita detecta
// retries del mismo request lógico; el hash de contenido detecta payloads
// duplicados aunque el cliente no comparta clave.
type KeyStrategy interface {
	DeriveKey(headerKey string, payload []byte) (string, error)
}

// HeaderKeyStrategy usa la clave explícita del header Idempotency-Key.
// La idempotencia es opt-in: sin header no se deduplica.
type HeaderKeyStrategy struct{}

func (HeaderKeyStrategy) DeriveKey(headerKey string, _ []byte) (string, error) {
	if headerKey == "" {
		return "", nil
	}
	if _, err := uuid.Parse(headerKey); err != nil {
		return "", ErrInvalidKey
	}
	return headerKey, nil
}

// ContentHashStrategy deriva la clave como SHA-256 del payload normalizado.
// La normalización Unicode NFC hace que payloads byte-distintos pero
// canónicamente iguales produzcan la misma clave.
type ContentHashStrategy struct{}

func (ContentHashStrategy) DeriveKey(_ string, payload []byte) (string, error) {
	if len(payload) == 0 {
		return "", nil
	}
	sum := sha256.Sum256(norm.NFC.Bytes(payload))
	return "sha256:" + hex.EncodeToString(sum[:]), nil
}
