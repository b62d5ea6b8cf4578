package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-importaciones/internal/domain"
)

// Tipos de movimiento del kardex.
const (
	MovementKindEntry         = "ENTRY"          // entrada por importación
	MovementKindExit          = "EXIT"           // salida por venta
	MovementKindShrinkage     = "SHRINKAGE"      // merma
	MovementKindAdjustmentIn  = "ADJUSTMENT_IN"  // ajuste +
	MovementKindAdjustmentOut = "ADJUSTMENT_OUT" // ajuste -
)

// InventoryMovement es un asiento inmutable del kardex. Quantity siempre es positiva;
// el signo lo determina Kind.
type InventoryMovement struct {
	ID        string
	ProductID string
	Kind      string
	Quantity  decimal.Decimal
	Date      time.Time
	Reference string // contenedor, venta o motivo del ajuste
	CreatedAt time.Time
	CreatedBy string
}

// NewInventoryMovement construye un movimiento validado.
func NewInventoryMovement(id, productID, kind string, qty decimal.Decimal, date time.Time, reference, createdBy string, now time.Time) (*InventoryMovement, error) {
	if id == "" || productID == "" {
		return nil, domain.Invalid("movimiento sin id o producto")
	}
	if !IsMovementKind(kind) {
		return nil, domain.Invalid("tipo de movimiento desconocido: %s", kind)
	}
	if !qty.IsPositive() {
		return nil, domain.Invalid("cantidad del movimiento debe ser positiva: %s", qty)
	}
	if date.IsZero() {
		return nil, domain.Invalid("fecha del movimiento vacía")
	}
	return &InventoryMovement{
		ID:        id,
		ProductID: productID,
		Kind:      kind,
		Quantity:  qty,
		Date:      date,
		Reference: reference,
		CreatedAt: now,
		CreatedBy: createdBy,
	}, nil
}

// IsMovementKind indica si kind es un tipo de movimiento válido.
func IsMovementKind(kind string) bool {
	switch kind {
	case MovementKindEntry, MovementKindExit, MovementKindShrinkage,
		MovementKindAdjustmentIn, MovementKindAdjustmentOut:
		return true
	}
	return false
}

// SignedQuantity: entradas y ajustes+ suman; salidas, merma y ajustes- restan.
func (m InventoryMovement) SignedQuantity() decimal.Decimal {
	switch m.Kind {
	case MovementKindEntry, MovementKindAdjustmentIn:
		return m.Quantity
	case MovementKindExit, MovementKindShrinkage, MovementKindAdjustmentOut:
		return m.Quantity.Neg()
	}
	return decimal.Zero
}
