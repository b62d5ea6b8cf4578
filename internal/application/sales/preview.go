package sales

import (
	"context"

	"github.com/jhoicas/costeo-importaciones/internal/application/dto"
	"github.com/jhoicas/costeo-importaciones/internal/domain/distribution"
	"github.com/jhoicas/costeo-importaciones/pkg/logger"
)

// PreviewUseCase calcula la vista previa de la distribución. Solo lee; varias vistas previas
// pueden correr en paralelo compartiendo la fuente aleatoria (envuelta en LockedSource).
type PreviewUseCase struct {
	readers Readers
	fifo    *FIFOResolver
	engine  *distribution.Engine
	log     *logger.Logger
}

// NewPreviewUseCase construye el caso de uso. rng se envuelve para uso concurrente.
func NewPreviewUseCase(readers Readers, rng distribution.RandomSource, log *logger.Logger) *PreviewUseCase {
	return &PreviewUseCase{
		readers: readers,
		fifo:    NewFIFOResolver(readers.Lots),
		engine:  distribution.NewEngine(NewLockedSource(rng)),
		log:     log.Component("sales"),
	}
}

// PreviewDistribution reparte la bolsa de transferencias del período entre los productos
// asignados y devuelve las líneas propuestas. El lote FIFO se resuelve al fin del período.
func (uc *PreviewUseCase) PreviewDistribution(ctx context.Context, in dto.PreviewRequest) (*dto.PreviewResponse, error) {
	start, end, err := parsePeriod(in.PeriodStart, in.PeriodEnd)
	if err != nil {
		return nil, err
	}
	transfers, err := loadTransfers(ctx, uc.readers.Transfers, in.TransferIDs, start, end, true)
	if err != nil {
		return nil, err
	}
	shares, err := resolveShares(ctx, uc.readers.Inventory, in)
	if err != nil {
		return nil, err
	}
	products, err := buildProducts(ctx, uc.readers.Products, uc.fifo, shares, end)
	if err != nil {
		return nil, err
	}

	req := distribution.Request{
		Start:                   start,
		End:                     end,
		Products:                products,
		AllowFiscalReassignment: in.AllowFiscalReassignment,
	}
	for _, t := range transfers {
		req.Transfers = append(req.Transfers, distribution.Transfer{ID: t.ID, Date: t.Date, Amount: t.Amount})
	}
	res, err := uc.engine.Distribute(req)
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("period_start", in.PeriodStart).
		Str("period_end", in.PeriodEnd).
		Int("transfers", len(transfers)).
		Int("lines", len(res.Lines)).
		Int("excluded", len(res.Excluded)).
		Str("total", res.Total().StringFixed(2)).
		Msg("vista previa de distribución")

	return toPreviewResponse(res, transfers), nil
}
