package repository

import (
	"context"

	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context) ([]*entity.Product, error)
}

// InventoryRepository stock cacheado por producto. Usado dentro de transacciones.
type InventoryRepository interface {
	Get(ctx context.Context, productID string) (*entity.Inventory, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); si no existe devuelve cantidad cero.
	GetForUpdate(ctx context.Context, productID string) (*entity.Inventory, error)
	Upsert(ctx context.Context, inv *entity.Inventory) error
	// ListPositive devuelve el stock de los productos con cantidad > 0.
	ListPositive(ctx context.Context) ([]*entity.Inventory, error)
}
