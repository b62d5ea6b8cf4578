package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/costeo-importaciones/internal/application/dto"
	"github.com/jhoicas/costeo-importaciones/internal/domain"
	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
	"github.com/jhoicas/costeo-importaciones/internal/domain/inventory"
	"github.com/jhoicas/costeo-importaciones/pkg/logger"
)

// DateValidator detecta transferencias anteriores a la importación del lote FIFO de un producto.
type DateValidator struct {
	readers Readers
	fifo    *FIFOResolver
	log     *logger.Logger
}

// NewDateValidator construye el validador.
func NewDateValidator(readers Readers, log *logger.Logger) *DateValidator {
	return &DateValidator{readers: readers, fifo: NewFIFOResolver(readers.Lots), log: log.Component("sales")}
}

type resolvedProduct struct {
	product *entity.Product
	lot     *inventory.LotCandidate
}

// ValidateDates compara, solo por fecha, cada transferencia con la fecha de importación del lote
// FIFO (resuelto a AsOf) de cada producto. Devuelve por transferencia los productos que no
// pueden respaldarla. Quien llama decide abortar o reintentar con reasignación fiscal.
func (v *DateValidator) ValidateDates(ctx context.Context, in dto.ValidateDatesRequest) (*dto.DateValidationResponse, error) {
	asOf, err := dto.ParseDate("as_of", in.AsOf)
	if err != nil {
		return nil, err
	}
	transfers, err := loadTransfers(ctx, v.readers.Transfers, in.TransferIDs, time.Time{}, time.Time{}, false)
	if err != nil {
		return nil, err
	}
	productIDs := uniqueIDs(in.ProductIDs)
	if len(productIDs) == 0 {
		return nil, domain.Invalid("se requiere al menos un producto")
	}

	products := make([]resolvedProduct, 0, len(productIDs))
	for _, id := range productIDs {
		p, err := v.readers.Products.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("sales: leer producto %s: %w", id, err)
		}
		if p == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		rp := resolvedProduct{product: p}
		lot, err := v.fifo.Resolve(ctx, id, asOf)
		switch {
		case errors.Is(err, domain.ErrLotUnavailable):
		case err != nil:
			return nil, err
		default:
			rp.lot = &lot
		}
		products = append(products, rp)
	}

	out := &dto.DateValidationResponse{Conflicts: []dto.DateConflictDTO{}}
	for _, t := range transfers {
		transferDay := entity.DateOnly(t.Date)
		conflict := dto.DateConflictDTO{TransferID: t.ID, TransferDate: dto.FormatDate(transferDay)}
		for _, rp := range products {
			excluded := dto.ExcludedProductDTO{ProductID: rp.product.ID, ProductName: rp.product.Name}
			switch {
			case rp.lot == nil:
				excluded.Reason = fmt.Sprintf("sin lote importado al %s", dto.FormatDate(asOf))
			case entity.DateOnly(rp.lot.ImportDate).After(transferDay):
				excluded.ImportDate = dto.FormatDate(rp.lot.ImportDate)
				excluded.Reason = fmt.Sprintf("importado el %s, después de la transferencia del %s",
					excluded.ImportDate, conflict.TransferDate)
			default:
				continue
			}
			conflict.Products = append(conflict.Products, excluded)
		}
		if len(conflict.Products) > 0 {
			out.Conflicts = append(out.Conflicts, conflict)
		}
	}
	out.Valid = len(out.Conflicts) == 0
	v.log.Info().Bool("valid", out.Valid).Int("conflicts", len(out.Conflicts)).Msg("validación de fechas")
	return out, nil
}
