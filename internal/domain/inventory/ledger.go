package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
)

// StockAt reconstruye el stock de un producto a la fecha at a partir del kardex:
// suma con signo todos los movimientos con fecha <= at. El resultado nunca es negativo.
// Se recalcula siempre; no se confía en el saldo cacheado de Inventory.
func StockAt(movements []*entity.InventoryMovement, at time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		if m.Date.After(at) {
			continue
		}
		total = total.Add(m.SignedQuantity())
	}
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// EndOfDay devuelve el último instante del día de t, para consultar "stock al cierre".
func EndOfDay(t time.Time) time.Time {
	return entity.DateOnly(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
