package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. PackSize es el múltiplo mínimo de venta (bulto).
type Product struct {
	ID        string
	Code      string
	Name      string
	PackSize  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectivePackSize devuelve PackSize o 1 si no está definido.
func (p *Product) EffectivePackSize() int64 {
	if p == nil || p.PackSize < 1 {
		return 1
	}
	return p.PackSize
}

// Inventory es el stock actual (cacheado) de un producto.
// Es una conveniencia derivada: para consultas históricas la fuente es el kardex de movimientos.
type Inventory struct {
	ProductID string
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}
