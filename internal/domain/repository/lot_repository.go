package repository

import (
	"context"

	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
	"github.com/jhoicas/costeo-importaciones/internal/domain/inventory"
)

// LotRepository define el puerto de persistencia para lotes.
type LotRepository interface {
	Create(ctx context.Context, lot *entity.Lot) error
	GetByID(ctx context.Context, id string) (*entity.Lot, error)
	// Update guarda los datos de entrada del lote (cantidad, costo, medianas, overrides).
	Update(ctx context.Context, lot *entity.Lot) error
	// UpdateCalculated guarda solo los campos cacheados del recálculo.
	UpdateCalculated(ctx context.Context, lot *entity.Lot) error
	ListByContainer(ctx context.Context, containerID string) ([]*entity.Lot, error)
	// ListCandidatesByProduct devuelve los lotes del producto con fecha, tasa y reparto de su contenedor.
	ListCandidatesByProduct(ctx context.Context, productID string) ([]inventory.LotCandidate, error)
}
