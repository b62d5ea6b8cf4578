package costing

import (
	"github.com/jhoicas/costeo-importaciones/internal/application/dto"
	"github.com/jhoicas/costeo-importaciones/internal/domain/pricing"
)

// responsePlaces decimales al serializar montos calculados.
const responsePlaces = 4

// CalculatePricing calcula costos y precios de un lote ad hoc, sin persistir nada.
func CalculatePricing(in dto.PricingRequest) (*dto.PricingResponse, error) {
	res, err := pricing.Calculate(pricing.Input{
		Quantity:            in.Quantity,
		ImportValueUSD:      in.ImportValueUSD,
		ExpenseShare:        in.ExpenseShare,
		ShrinkagePct:        in.ShrinkagePct,
		MarginPct:           in.MarginPct,
		ExchangeRate:        in.ExchangeRate,
		HardCurrencyPct:     in.HardCurrencyPct,
		FiscalPct:           in.FiscalPct,
		CashPct:             in.CashPct,
		CommercialMarginPct: in.CommercialMarginPct,
		FiscalMedianPrice:   in.FiscalMedianPrice,
		CashMedianPrice:     in.CashMedianPrice,
		OtherExpensesPct:    in.OtherExpensesPct,
	})
	if err != nil {
		return nil, err
	}
	out := toPricingResponse(res)
	return &out, nil
}
