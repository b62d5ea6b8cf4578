package pricing_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/costeo-importaciones/internal/domain"
	"github.com/jhoicas/costeo-importaciones/internal/domain/pricing"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// assertDec compara decimales por valor (no por representación interna).
func assertDec(t *testing.T, expected string, actual decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, d(expected).Equal(actual), "%s: esperado %s, obtenido %s", msg, expected, actual)
}

// baseInput es el lote del escenario A: 100 unidades, $1000, merma 2%, margen 15%,
// margen comercial 85%, tasa 320 y un gasto prorrateado de 1000 en moneda local.
func baseInput() pricing.Input {
	return pricing.Input{
		Quantity:            d("100"),
		ImportValueUSD:      d("1000"),
		ExpenseShare:        d("1000"),
		ShrinkagePct:        d("2"),
		MarginPct:           d("15"),
		ExchangeRate:        d("320"),
		HardCurrencyPct:     d("91"),
		FiscalPct:           d("5"),
		CashPct:             d("4"),
		CommercialMarginPct: d("85"),
		FiscalMedianPrice:   d("4500"),
		CashMedianPrice:     d("4000"),
		OtherExpensesPct:    d("3"),
	}
}

func TestCalculate_EscenarioA(t *testing.T) {
	r, err := pricing.Calculate(baseInput())
	require.NoError(t, err)

	assertDec(t, "98", r.SellableQty, "cantidad vendible")
	assertDec(t, "2", r.ShrinkageQty, "merma")
	assertDec(t, "10", r.UnitCostUSD, "costo unitario USD")
	assertDec(t, "10", r.ExpensePerUnit, "gasto por unidad")
	assertDec(t, "10.03125", r.GrossUnitCostUSD, "costo bruto unitario")
	assertDec(t, "13.5717", r.SalePriceUSD.Round(4), "precio de venta USD")
	assert.True(t, r.SalePriceLocal.Equal(r.SalePriceUSD.Mul(d("320"))), "precio local = USD * tasa")
}

func TestCalculate_CantidadesPorCanal(t *testing.T) {
	r, err := pricing.Calculate(baseInput())
	require.NoError(t, err)

	assertDec(t, "89.18", r.ChannelQty.HardCurrency, "canal USD")
	assertDec(t, "4.9", r.ChannelQty.Fiscal, "canal fiscal")
	assertDec(t, "3.92", r.ChannelQty.Cash, "canal efectivo")
	assert.True(t, r.ChannelQty.Sum().LessThanOrEqual(r.SellableQty), "la suma por canal no supera lo vendible")
	assert.True(t, r.SellableQty.Add(r.ShrinkageQty).Equal(d("100")), "vendible + merma = cantidad original")
}

func TestCalculate_PreciosPorCanal(t *testing.T) {
	r, err := pricing.Calculate(baseInput())
	require.NoError(t, err)

	assertDec(t, "4500", r.ChannelPrice.Fiscal, "fiscal usa la mediana tal cual")
	assertDec(t, "3600", r.ChannelPrice.Cash, "efectivo = mediana * 0.90")
	assert.True(t, r.ChannelPrice.HardCurrency.Equal(r.SalePriceLocal))
}

func TestCalculate_ImpuestosYGrossUp(t *testing.T) {
	in := pricing.Input{
		Quantity:            d("100"),
		ImportValueUSD:      d("1000"),
		ExpenseShare:        d("0"),
		ShrinkagePct:        d("0"),
		MarginPct:           d("0"),
		ExchangeRate:        d("1"),
		HardCurrencyPct:     d("0"),
		FiscalPct:           d("100"),
		CashPct:             d("0"),
		CommercialMarginPct: d("100"),
		FiscalMedianPrice:   d("20"),
		CashMedianPrice:     d("0"),
		OtherExpensesPct:    d("0"),
	}

	t.Run("sin otros gastos", func(t *testing.T) {
		r, err := pricing.Calculate(in)
		require.NoError(t, err)
		assertDec(t, "2000", r.TotalRevenue, "ingreso total")
		assertDec(t, "1000", r.Cost, "costo")
		assertDec(t, "220", r.Levy, "gravamen 11%")
		assertDec(t, "0", r.OtherExpenses, "otros gastos")
		assertDec(t, "1220", r.GrossTotalCost, "costo total bruto")
		assertDec(t, "780", r.EstimatedProfit, "utilidad estimada")
		assertDec(t, "273", r.ProfitTax, "impuesto 35%")
		assertDec(t, "493", r.TotalTaxes, "impuestos totales")
		assertDec(t, "287", r.TrueGrossProfit, "utilidad bruta real")
	})

	t.Run("gross-up incluye el 11% en la base", func(t *testing.T) {
		withOther := in
		withOther.OtherExpensesPct = d("20")
		r, err := pricing.Calculate(withOther)
		require.NoError(t, err)
		// base = 1000 + 0 + 220 = 1220; 1220/0.8 - 1220 = 305
		assertDec(t, "305", r.OtherExpenses, "otros gastos")
		assertDec(t, "1525", r.GrossTotalCost, "costo total bruto")
		assertDec(t, "475", r.EstimatedProfit, "utilidad estimada")
		assertDec(t, "386.25", r.TotalTaxes, "impuestos totales")
		assertDec(t, "88.75", r.TrueGrossProfit, "utilidad bruta real")
	})

	t.Run("punto de equilibrio", func(t *testing.T) {
		r, err := pricing.Calculate(in)
		require.NoError(t, err)
		assertDec(t, "10", r.SalePriceUSD, "precio USD")
		assertDec(t, "100", r.BreakEvenUnits, "unidades de equilibrio")
		assertDec(t, "100", r.BreakEvenPct, "% de equilibrio")
	})
}

func TestCalculate_DenominadoresEnCero(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*pricing.Input)
		check func(t *testing.T, r pricing.Result)
	}{
		{
			name:  "margen comercial cero",
			apply: func(in *pricing.Input) { in.CommercialMarginPct = d("0") },
			check: func(t *testing.T, r pricing.Result) {
				assert.True(t, r.SalePriceUSD.IsZero())
				assert.True(t, r.SalePriceLocal.IsZero())
				assert.True(t, r.BreakEvenUnits.IsZero())
			},
		},
		{
			name:  "merma total",
			apply: func(in *pricing.Input) { in.ShrinkagePct = d("100") },
			check: func(t *testing.T, r pricing.Result) {
				assert.True(t, r.SellableQty.IsZero())
				assert.True(t, r.TotalRevenue.IsZero())
				assert.True(t, r.BreakEvenPct.IsZero())
			},
		},
		{
			name:  "otros gastos 100%",
			apply: func(in *pricing.Input) { in.OtherExpensesPct = d("100") },
			check: func(t *testing.T, r pricing.Result) {
				assert.True(t, r.OtherExpenses.IsZero())
			},
		},
		{
			name:  "tasa cero",
			apply: func(in *pricing.Input) { in.ExchangeRate = d("0") },
			check: func(t *testing.T, r pricing.Result) {
				assert.True(t, r.GrossUnitCostUSD.Equal(r.UnitCostUSD))
				assert.True(t, r.SalePriceLocal.IsZero())
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInput()
			tt.apply(&in)
			r, err := pricing.Calculate(in)
			require.NoError(t, err)
			tt.check(t, r)
		})
	}
}

func TestCalculate_CantidadCeroEsViolacionDeContrato(t *testing.T) {
	in := baseInput()
	in.Quantity = d("0")
	_, err := pricing.Calculate(in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCalculate_Determinista(t *testing.T) {
	a, err := pricing.Calculate(baseInput())
	require.NoError(t, err)
	b, err := pricing.Calculate(baseInput())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%+v", a), fmt.Sprintf("%+v", b))
}

func TestResult_RoundHalfUp(t *testing.T) {
	r, err := pricing.Calculate(baseInput())
	require.NoError(t, err)
	rounded := r.Round(2)
	assertDec(t, "13.57", rounded.SalePriceUSD, "precio USD redondeado")
	assertDec(t, "10.03", rounded.GrossUnitCostUSD, "costo bruto redondeado")
}
