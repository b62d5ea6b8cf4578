package repository

import (
	"context"

	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
)

// TransferRepository comprobantes de transferencia.
type TransferRepository interface {
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Transfer, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error)
	// LinkToSale vincula solo si sale_id sigue vacío; si otra venta ganó devuelve domain.ErrTransferLinked.
	LinkToSale(ctx context.Context, transferID, saleID string) error
	// UnlinkSale libera todas las transferencias de la venta.
	UnlinkSale(ctx context.Context, saleID string) error
}

// SaleRepository ventas confirmadas con sus líneas.
type SaleRepository interface {
	// Create persiste la venta y sus líneas.
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve la venta con líneas y transferencias, o (nil, nil).
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	Delete(ctx context.Context, id string) error
}
