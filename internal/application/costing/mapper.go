package costing

import (
	"github.com/jhoicas/costeo-importaciones/internal/application/dto"
	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
	"github.com/jhoicas/costeo-importaciones/internal/domain/pricing"
)

func percentagesFromDTO(in dto.PercentagesDTO) entity.Percentages {
	return entity.Percentages{
		HardCurrencyPct:     in.HardCurrencyPct,
		FiscalPct:           in.FiscalPct,
		CashPct:             in.CashPct,
		MarginPct:           in.MarginPct,
		ShrinkagePct:        in.ShrinkagePct,
		CommercialMarginPct: in.CommercialMarginPct,
		OtherExpensesPct:    in.OtherExpensesPct,
	}
}

func toPercentagesDTO(p entity.Percentages) dto.PercentagesDTO {
	return dto.PercentagesDTO{
		HardCurrencyPct:     p.HardCurrencyPct,
		FiscalPct:           p.FiscalPct,
		CashPct:             p.CashPct,
		MarginPct:           p.MarginPct,
		ShrinkagePct:        p.ShrinkagePct,
		CommercialMarginPct: p.CommercialMarginPct,
		OtherExpensesPct:    p.OtherExpensesPct,
	}
}

func toChannelDTO(c pricing.ChannelAmounts) dto.ChannelAmountsDTO {
	return dto.ChannelAmountsDTO{HardCurrency: c.HardCurrency, Fiscal: c.Fiscal, Cash: c.Cash}
}

func toPricingResponse(r pricing.Result) dto.PricingResponse {
	r = r.Round(responsePlaces)
	return dto.PricingResponse{
		UnitCostUSD:      r.UnitCostUSD,
		ExpensePerUnit:   r.ExpensePerUnit,
		GrossUnitCostUSD: r.GrossUnitCostUSD,
		SellableQty:      r.SellableQty,
		ShrinkageQty:     r.ShrinkageQty,
		ChannelQty:       toChannelDTO(r.ChannelQty),
		SalePriceUSD:     r.SalePriceUSD,
		SalePriceLocal:   r.SalePriceLocal,
		ChannelPrice:     toChannelDTO(r.ChannelPrice),
		ChannelRevenue:   toChannelDTO(r.ChannelRevenue),
		TotalRevenue:     r.TotalRevenue,
		Cost:             r.Cost,
		Expenses:         r.Expenses,
		Levy:             r.Levy,
		OtherExpenses:    r.OtherExpenses,
		GrossTotalCost:   r.GrossTotalCost,
		EstimatedProfit:  r.EstimatedProfit,
		ProfitTax:        r.ProfitTax,
		TotalTaxes:       r.TotalTaxes,
		TrueGrossProfit:  r.TrueGrossProfit,
		BreakEvenUnits:   r.BreakEvenUnits,
		BreakEvenPct:     r.BreakEvenPct,
	}
}

func toRecalculationResponse(rec *Recalculation) *dto.RecalculationResponse {
	out := &dto.RecalculationResponse{
		ContainerID:       rec.ContainerID,
		TotalExpenseLocal: rec.TotalExpenseLocal.Round(responsePlaces),
		Lots:              make([]dto.LotPricingResponse, 0, len(rec.Lots)),
		CalculatedAt:      rec.CalculatedAt,
	}
	for _, lr := range rec.Lots {
		out.Lots = append(out.Lots, dto.LotPricingResponse{
			LotID:        lr.Lot.ID,
			ProductID:    lr.Lot.ProductID,
			ExpenseShare: lr.Lot.Calculated.ExpenseShare.Round(responsePlaces),
			Pricing:      toPricingResponse(lr.Result),
		})
	}
	return out
}

func toLotResponse(l *entity.Lot) dto.LotResponse {
	c := l.Calculated
	calc := dto.LotCalculationDTO{
		ExpenseShare:     c.ExpenseShare.Round(responsePlaces),
		UnitCostUSD:      c.UnitCostUSD.Round(responsePlaces),
		GrossUnitCostUSD: c.GrossUnitCostUSD.Round(responsePlaces),
		SellableQty:      c.SellableQty.Round(responsePlaces),
		ShrinkageQty:     c.ShrinkageQty.Round(responsePlaces),
		SalePriceUSD:     c.SalePriceUSD.Round(responsePlaces),
		SalePriceLocal:   c.SalePriceLocal.Round(responsePlaces),
		TotalRevenue:     c.TotalRevenue.Round(responsePlaces),
		TotalTaxes:       c.TotalTaxes.Round(responsePlaces),
		TrueGrossProfit:  c.TrueGrossProfit.Round(responsePlaces),
	}
	if !c.CalculatedAt.IsZero() {
		at := c.CalculatedAt
		calc.CalculatedAt = &at
	}
	return dto.LotResponse{
		ID:                l.ID,
		ProductID:         l.ProductID,
		Quantity:          l.Quantity,
		UnitCostUSD:       l.UnitCostUSD,
		TotalCostUSD:      l.TotalCostUSD,
		ShrinkagePct:      l.ShrinkagePct,
		MarginPct:         l.MarginPct,
		FiscalMedianPrice: l.FiscalMedianPrice,
		CashMedianPrice:   l.CashMedianPrice,
		Calculated:        calc,
	}
}

func toContainerResponse(c *entity.Container, lots []*entity.Lot, expenses []*entity.Expense, rates []*entity.ExchangeRate) *dto.ContainerResponse {
	out := &dto.ContainerResponse{
		ID:           c.ID,
		Code:         c.Code,
		ImportDate:   dto.FormatDate(c.ImportDate),
		ExchangeRate: c.ExchangeRate,
		Percentages:  toPercentagesDTO(c.Percentages),
		Lots:         make([]dto.LotResponse, 0, len(lots)),
		Expenses:     make([]dto.ExpenseResponse, 0, len(expenses)),
		Rates:        make([]dto.ExchangeRateResponse, 0, len(rates)),
		UpdatedAt:    c.UpdatedAt,
	}
	for _, l := range lots {
		out.Lots = append(out.Lots, toLotResponse(l))
	}
	for _, e := range expenses {
		out.Expenses = append(out.Expenses, dto.ExpenseResponse{
			ID:           e.ID,
			CurrencyCode: e.CurrencyCode,
			Amount:       e.Amount,
			Type:         e.Type,
			Description:  e.Description,
		})
	}
	for _, r := range rates {
		out.Rates = append(out.Rates, dto.ExchangeRateResponse{CurrencyCode: r.CurrencyCode, Rate: r.Rate})
	}
	return out
}
