package repository

import (
	"context"
	"time"

	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
)

// InventoryMovementRepository define el puerto de persistencia del kardex (solo inserción).
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	// ListByProductUntil lista los movimientos del producto con fecha <= until, en orden cronológico.
	ListByProductUntil(ctx context.Context, productID string, until time.Time) ([]*entity.InventoryMovement, error)
}
