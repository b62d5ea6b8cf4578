package costing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-importaciones/internal/domain"
	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
	"github.com/jhoicas/costeo-importaciones/internal/domain/pricing"
)

// Snapshot estado de un contenedor leído dentro de la transacción de recálculo.
type Snapshot struct {
	Container *entity.Container
	Lots      []*entity.Lot
	Expenses  []*entity.Expense
	Rates     pricing.RateTable
}

// LotResult resultado completo del cálculo de un lote.
type LotResult struct {
	Lot    *entity.Lot
	Result pricing.Result
}

// Recalculation resultado del recálculo de un contenedor.
type Recalculation struct {
	ContainerID       string
	TotalExpenseLocal decimal.Decimal
	Lots              []LotResult
	CalculatedAt      time.Time
}

// Recompute prorratea los gastos del contenedor por valor invertido y recalcula cada lote.
// Modifica los lotes del snapshot: merma y margen se reemplazan por los del contenedor y
// Calculated queda con los nuevos valores. No toca la BD.
func Recompute(s Snapshot, now time.Time) (*Recalculation, error) {
	if s.Container == nil {
		return nil, domain.ErrNotFound
	}
	total, err := pricing.TotalExpenseLocal(s.Expenses, s.Rates)
	if err != nil {
		return nil, err
	}
	values := make([]decimal.Decimal, len(s.Lots))
	for i, l := range s.Lots {
		values[i] = l.TotalCostUSD
	}
	shares := pricing.ProrateByValue(total, values)

	pct := s.Container.Percentages
	rec := &Recalculation{
		ContainerID:       s.Container.ID,
		TotalExpenseLocal: total,
		Lots:              make([]LotResult, 0, len(s.Lots)),
		CalculatedAt:      now,
	}
	for i, lot := range s.Lots {
		lot.ShrinkagePct = pct.ShrinkagePct
		lot.MarginPct = pct.MarginPct
		res, err := pricing.Calculate(pricing.Input{
			Quantity:            lot.Quantity,
			ImportValueUSD:      lot.TotalCostUSD,
			ExpenseShare:        shares[i],
			ShrinkagePct:        lot.ShrinkagePct,
			MarginPct:           lot.MarginPct,
			ExchangeRate:        s.Container.ExchangeRate,
			HardCurrencyPct:     pct.HardCurrencyPct,
			FiscalPct:           pct.FiscalPct,
			CashPct:             pct.CashPct,
			CommercialMarginPct: pct.CommercialMarginPct,
			FiscalMedianPrice:   lot.FiscalMedianPrice,
			CashMedianPrice:     lot.CashMedianPrice,
			OtherExpensesPct:    pct.OtherExpensesPct,
		})
		if err != nil {
			return nil, fmt.Errorf("lote %s: %w", lot.ID, err)
		}
		lot.Calculated = entity.LotCalculation{
			ExpenseShare:     shares[i],
			UnitCostUSD:      res.UnitCostUSD,
			GrossUnitCostUSD: res.GrossUnitCostUSD,
			SellableQty:      res.SellableQty,
			ShrinkageQty:     res.ShrinkageQty,
			SalePriceUSD:     res.SalePriceUSD,
			SalePriceLocal:   res.SalePriceLocal,
			TotalRevenue:     res.TotalRevenue,
			TotalTaxes:       res.TotalTaxes,
			TrueGrossProfit:  res.TrueGrossProfit,
			CalculatedAt:     now,
		}
		lot.UpdatedAt = now
		rec.Lots = append(rec.Lots, LotResult{Lot: lot, Result: res})
	}
	return rec, nil
}
