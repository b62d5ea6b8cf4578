package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-importaciones/internal/application/dto"
	"github.com/jhoicas/costeo-importaciones/internal/domain"
	"github.com/jhoicas/costeo-importaciones/internal/domain/distribution"
	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
	"github.com/jhoicas/costeo-importaciones/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

func parsePeriod(start, end string) (time.Time, time.Time, error) {
	s, err := dto.ParseDate("period_start", start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	e, err := dto.ParseDate("period_end", end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if e.Before(s) {
		return time.Time{}, time.Time{}, domain.Invalid("period_end anterior a period_start")
	}
	return s, e, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// loadTransfers carga las transferencias pedidas ordenadas por fecha. Todas deben existir
// y, si se indica período, caer dentro de él. requireFree exige que no estén vinculadas.
func loadTransfers(ctx context.Context, repo repository.TransferRepository, ids []string, start, end time.Time, requireFree bool) ([]*entity.Transfer, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, domain.Invalid("se requiere al menos una transferencia")
	}
	transfers, err := repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("sales: cargar transferencias: %w", err)
	}
	byID := make(map[string]*entity.Transfer, len(transfers))
	for _, t := range transfers {
		byID[t.ID] = t
	}
	out := make([]*entity.Transfer, 0, len(ids))
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: transferencia %s", domain.ErrNotFound, id)
		}
		if requireFree && t.IsLinked() {
			return nil, fmt.Errorf("%w (%s)", domain.ErrTransferLinked, id)
		}
		if !start.IsZero() {
			day := entity.DateOnly(t.Date)
			if day.Before(start) || day.After(end) {
				return nil, domain.Invalid("la transferencia %s (%s) está fuera del período", id, dto.FormatDate(day))
			}
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// resolveShares arma la asignación por producto: manual (porcentajes del usuario) o
// automática (proporcional al stock actual). Sin modo explícito, hay asignaciones => manual.
func resolveShares(ctx context.Context, inv repository.InventoryRepository, in dto.PreviewRequest) ([]distribution.Share, error) {
	mode := in.Mode
	if mode == "" {
		mode = dto.AllocationAuto
		if len(in.Allocations) > 0 {
			mode = dto.AllocationManual
		}
	}
	switch mode {
	case dto.AllocationManual:
		if len(in.Allocations) == 0 {
			return nil, domain.Invalid("modo manual sin asignaciones")
		}
		seen := make(map[string]bool, len(in.Allocations))
		shares := make([]distribution.Share, 0, len(in.Allocations))
		for _, a := range in.Allocations {
			if a.ProductID == "" || seen[a.ProductID] {
				return nil, domain.Invalid("asignación con producto vacío o repetido: %q", a.ProductID)
			}
			if a.Percent.IsNegative() || a.Percent.GreaterThan(hundred) {
				return nil, domain.Invalid("porcentaje fuera de [0,100] para %s: %s", a.ProductID, a.Percent)
			}
			seen[a.ProductID] = true
			shares = append(shares, distribution.Share{ProductID: a.ProductID, Percent: a.Percent})
		}
		return shares, nil
	case dto.AllocationAuto:
		positive, err := inv.ListPositive(ctx)
		if err != nil {
			return nil, fmt.Errorf("sales: leer inventario: %w", err)
		}
		stock := make(map[string]decimal.Decimal, len(positive))
		all := make([]string, 0, len(positive))
		for _, p := range positive {
			stock[p.ProductID] = p.Quantity
			all = append(all, p.ProductID)
		}
		ids := uniqueIDs(in.ProductIDs)
		if len(ids) == 0 {
			sort.Strings(all)
			ids = all
		}
		return distribution.SharesFromStock(ids, stock)
	}
	return nil, domain.Invalid("modo de asignación desconocido: %s", mode)
}

// buildProducts resuelve catálogo y lote FIFO de cada producto asignado. Un producto sin lote
// se pasa sin LotID para que el motor lo excluya conservando su porcentaje.
func buildProducts(ctx context.Context, products repository.ProductRepository, fifo *FIFOResolver, shares []distribution.Share, asOf time.Time) ([]distribution.Product, error) {
	out := make([]distribution.Product, 0, len(shares))
	for _, s := range shares {
		prod, err := products.GetByID(ctx, s.ProductID)
		if err != nil {
			return nil, fmt.Errorf("sales: leer producto %s: %w", s.ProductID, err)
		}
		if prod == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, s.ProductID)
		}
		p := distribution.Product{
			ProductID: prod.ID,
			Name:      prod.Name,
			PackSize:  prod.EffectivePackSize(),
			Percent:   s.Percent,
		}
		lot, err := fifo.Resolve(ctx, prod.ID, asOf)
		switch {
		case errors.Is(err, domain.ErrLotUnavailable):
		case err != nil:
			return nil, err
		default:
			p.LotID = lot.Lot.ID
			p.ImportDate = lot.ImportDate
			p.Prices = lot.ChannelPrices()
			p.Split = lot.Split
		}
		out = append(out, p)
	}
	return out, nil
}
