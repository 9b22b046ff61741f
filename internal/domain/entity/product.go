package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario.
// El saldo se maneja aparte en Stock (una fila por producto, creada al registrar el producto).
type Product struct {
	ID         string
	SKU        string // código único
	Name       string
	Brand      string
	CategoryID string
	Price      decimal.Decimal // precio de venta
	MinStock   int64           // umbral de stock mínimo para alertas
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
