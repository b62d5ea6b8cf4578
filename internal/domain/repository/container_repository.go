package repository

import (
	"context"

	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
)

// ContainerRepository define el puerto de persistencia para Container (DIP).
// GetByID y GetForUpdate devuelven (nil, nil) si no existe.
type ContainerRepository interface {
	Create(ctx context.Context, container *entity.Container) error
	GetByID(ctx context.Context, id string) (*entity.Container, error)
	// GetForUpdate bloquea la fila del contenedor (SELECT FOR UPDATE); serializa los recálculos.
	GetForUpdate(ctx context.Context, id string) (*entity.Container, error)
	Update(ctx context.Context, container *entity.Container) error
}
