// Package pricing contiene el cálculo de costos, precios e impuestos por lote y el prorrateo
// de gastos del contenedor. Todo el cálculo es decimal con precisión completa; el redondeo
// (half-up) se aplica solo al serializar (Result.Round).
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-importaciones/internal/domain"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)

	// LevyRate gravamen del 11% sobre el ingreso total.
	LevyRate = decimal.RequireFromString("0.11")
	// ProfitTaxRate impuesto sobre la utilidad estimada.
	ProfitTaxRate = decimal.RequireFromString("0.35")
	// CashDiscountFactor descuento fijo del canal efectivo sobre la mediana.
	CashDiscountFactor = decimal.RequireFromString("0.90")
)

// Input datos de un lote para el cálculo. Los porcentajes llegan ya validados en [0,100].
type Input struct {
	Quantity            decimal.Decimal
	ImportValueUSD      decimal.Decimal
	ExpenseShare        decimal.Decimal // gasto prorrateado, moneda local
	ShrinkagePct        decimal.Decimal
	MarginPct           decimal.Decimal
	ExchangeRate        decimal.Decimal // USD -> local
	HardCurrencyPct     decimal.Decimal
	FiscalPct           decimal.Decimal
	CashPct             decimal.Decimal
	CommercialMarginPct decimal.Decimal
	FiscalMedianPrice   decimal.Decimal
	CashMedianPrice     decimal.Decimal
	OtherExpensesPct    decimal.Decimal
}

// ChannelAmounts valores por canal de venta.
type ChannelAmounts struct {
	HardCurrency decimal.Decimal
	Fiscal       decimal.Decimal
	Cash         decimal.Decimal
}

// Sum suma los tres canales.
func (c ChannelAmounts) Sum() decimal.Decimal {
	return c.HardCurrency.Add(c.Fiscal).Add(c.Cash)
}

func (c ChannelAmounts) round(places int32) ChannelAmounts {
	return ChannelAmounts{
		HardCurrency: c.HardCurrency.Round(places),
		Fiscal:       c.Fiscal.Round(places),
		Cash:         c.Cash.Round(places),
	}
}

// Result salida completa del cálculo. Montos en moneda local salvo los sufijos USD.
type Result struct {
	UnitCostUSD      decimal.Decimal
	ExpensePerUnit   decimal.Decimal
	GrossUnitCostUSD decimal.Decimal
	SellableQty      decimal.Decimal
	ShrinkageQty     decimal.Decimal
	ChannelQty       ChannelAmounts
	SalePriceUSD     decimal.Decimal
	SalePriceLocal   decimal.Decimal
	ChannelPrice     ChannelAmounts
	ChannelRevenue   ChannelAmounts
	TotalRevenue     decimal.Decimal
	Cost             decimal.Decimal
	Expenses         decimal.Decimal
	Levy             decimal.Decimal
	OtherExpenses    decimal.Decimal
	GrossTotalCost   decimal.Decimal
	EstimatedProfit  decimal.Decimal
	ProfitTax        decimal.Decimal
	TotalTaxes       decimal.Decimal
	TrueGrossProfit  decimal.Decimal
	BreakEvenUnits   decimal.Decimal
	BreakEvenPct     decimal.Decimal
}

// Calculate convierte los datos de importación de un lote en costos, precios por canal,
// ingresos, impuestos y utilidad. Es una función pura.
// Quantity <= 0 viola el contrato y devuelve ErrInvalidInput; cualquier otro denominador
// en cero produce cero.
func Calculate(in Input) (Result, error) {
	if !in.Quantity.IsPositive() {
		return Result{}, domain.Invalid("cantidad del lote debe ser positiva: %s", in.Quantity)
	}
	var r Result

	// 1-2. Costos unitarios
	r.UnitCostUSD = in.ImportValueUSD.Div(in.Quantity)
	r.ExpensePerUnit = in.ExpenseShare.Div(in.Quantity)
	r.GrossUnitCostUSD = r.UnitCostUSD.Add(safeDiv(r.ExpensePerUnit, in.ExchangeRate))

	// 3. Merma
	r.SellableQty = in.Quantity.Mul(one.Sub(in.ShrinkagePct.Div(hundred)))
	r.ShrinkageQty = in.Quantity.Sub(r.SellableQty)

	// 4. Cantidades por canal
	r.ChannelQty = ChannelAmounts{
		HardCurrency: r.SellableQty.Mul(in.HardCurrencyPct).Div(hundred),
		Fiscal:       r.SellableQty.Mul(in.FiscalPct).Div(hundred),
		Cash:         r.SellableQty.Mul(in.CashPct).Div(hundred),
	}

	// 5. Precio de venta: costo bruto / margen comercial * (1 + margen)
	commercialFactor := in.CommercialMarginPct.Div(hundred)
	r.SalePriceUSD = safeDiv(r.GrossUnitCostUSD, commercialFactor).Mul(one.Add(in.MarginPct.Div(hundred)))
	r.SalePriceLocal = r.SalePriceUSD.Mul(in.ExchangeRate)

	// 6. Precios por canal
	r.ChannelPrice = ChannelAmounts{
		HardCurrency: r.SalePriceLocal,
		Fiscal:       in.FiscalMedianPrice,
		Cash:         in.CashMedianPrice.Mul(CashDiscountFactor),
	}

	// 7. Ingresos
	r.ChannelRevenue = ChannelAmounts{
		HardCurrency: r.ChannelQty.HardCurrency.Mul(r.ChannelPrice.HardCurrency),
		Fiscal:       r.ChannelQty.Fiscal.Mul(r.ChannelPrice.Fiscal),
		Cash:         r.ChannelQty.Cash.Mul(r.ChannelPrice.Cash),
	}
	r.TotalRevenue = r.ChannelRevenue.Sum()

	// 8-9. Base = costo + gastos + 11%; "otros gastos" se agrega como gross-up sobre esa base.
	r.Cost = in.ImportValueUSD.Mul(in.ExchangeRate)
	r.Expenses = in.ExpenseShare
	r.Levy = r.TotalRevenue.Mul(LevyRate)
	base := r.Cost.Add(r.Expenses).Add(r.Levy)
	r.OtherExpenses = grossUp(base, in.OtherExpensesPct)
	r.GrossTotalCost = base.Add(r.OtherExpenses)

	// 10. Utilidad e impuestos
	r.EstimatedProfit = r.TotalRevenue.Sub(r.GrossTotalCost)
	r.ProfitTax = r.EstimatedProfit.Mul(ProfitTaxRate)
	r.TotalTaxes = r.Levy.Add(r.ProfitTax)
	r.TrueGrossProfit = r.TotalRevenue.Sub(r.GrossTotalCost).Sub(r.TotalTaxes)

	// 11. Punto de equilibrio
	r.BreakEvenUnits = safeDiv(in.ImportValueUSD, r.SalePriceUSD)
	r.BreakEvenPct = safeDiv(r.BreakEvenUnits, r.SellableQty).Mul(hundred)

	return r, nil
}

// grossUp devuelve base/(1 - pct/100) - base; pct = 100 produce cero.
func grossUp(base, pct decimal.Decimal) decimal.Decimal {
	factor := one.Sub(pct.Div(hundred))
	if factor.IsZero() {
		return decimal.Zero
	}
	return base.Div(factor).Sub(base)
}

func safeDiv(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}

// Round devuelve una copia redondeada half-up a places decimales, para serializar o guardar.
func (r Result) Round(places int32) Result {
	return Result{
		UnitCostUSD:      r.UnitCostUSD.Round(places),
		ExpensePerUnit:   r.ExpensePerUnit.Round(places),
		GrossUnitCostUSD: r.GrossUnitCostUSD.Round(places),
		SellableQty:      r.SellableQty.Round(places),
		ShrinkageQty:     r.ShrinkageQty.Round(places),
		ChannelQty:       r.ChannelQty.round(places),
		SalePriceUSD:     r.SalePriceUSD.Round(places),
		SalePriceLocal:   r.SalePriceLocal.Round(places),
		ChannelPrice:     r.ChannelPrice.round(places),
		ChannelRevenue:   r.ChannelRevenue.round(places),
		TotalRevenue:     r.TotalRevenue.Round(places),
		Cost:             r.Cost.Round(places),
		Expenses:         r.Expenses.Round(places),
		Levy:             r.Levy.Round(places),
		OtherExpenses:    r.OtherExpenses.Round(places),
		GrossTotalCost:   r.GrossTotalCost.Round(places),
		EstimatedProfit:  r.EstimatedProfit.Round(places),
		ProfitTax:        r.ProfitTax.Round(places),
		TotalTaxes:       r.TotalTaxes.Round(places),
		TrueGrossProfit:  r.TrueGrossProfit.Round(places),
		BreakEvenUnits:   r.BreakEvenUnits.Round(places),
		BreakEvenPct:     r.BreakEvenPct.Round(places),
	}
}
