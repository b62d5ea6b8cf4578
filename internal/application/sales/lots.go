package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-importaciones/internal/domain"
	"github.com/jhoicas/costeo-importaciones/internal/domain/inventory"
	"github.com/jhoicas/costeo-importaciones/internal/domain/repository"
)

// FIFOResolver resuelve el lote FIFO vigente de un producto a una fecha.
type FIFOResolver struct {
	lots repository.LotRepository
}

// NewFIFOResolver construye el resolvedor sobre el repositorio de lotes.
func NewFIFOResolver(lots repository.LotRepository) *FIFOResolver {
	return &FIFOResolver{lots: lots}
}

// Resolve devuelve el lote con la fecha de importación más antigua <= asOf.
// Sin lote elegible devuelve domain.ErrLotUnavailable.
func (r *FIFOResolver) Resolve(ctx context.Context, productID string, asOf time.Time) (inventory.LotCandidate, error) {
	candidates, err := r.lots.ListCandidatesByProduct(ctx, productID)
	if err != nil {
		return inventory.LotCandidate{}, err
	}
	c, ok := inventory.SelectFIFO(candidates, asOf)
	if !ok {
		return inventory.LotCandidate{}, fmt.Errorf("%w: %s al %s", domain.ErrLotUnavailable, productID, asOf.Format("2006-01-02"))
	}
	return c, nil
}

// StockLedger consulta el stock histórico desde el kardex.
type StockLedger struct {
	movements repository.InventoryMovementRepository
}

// NewStockLedger construye el libro sobre el repositorio de movimientos.
func NewStockLedger(movements repository.InventoryMovementRepository) *StockLedger {
	return &StockLedger{movements: movements}
}

// StockAt recalcula el stock del producto al instante at; nunca usa el saldo cacheado.
func (l *StockLedger) StockAt(ctx context.Context, productID string, at time.Time) (decimal.Decimal, error) {
	movs, err := l.movements.ListByProductUntil(ctx, productID, at)
	if err != nil {
		return decimal.Zero, err
	}
	return inventory.StockAt(movs, at), nil
}
