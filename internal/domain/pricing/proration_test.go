package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/costeo-importaciones/internal/domain"
	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
	"github.com/jhoicas/costeo-importaciones/internal/domain/pricing"
)

func TestProrateByValue_EscenarioB(t *testing.T) {
	shares := pricing.ProrateByValue(d("400"), []decimal.Decimal{d("1000"), d("3000")})
	require.Len(t, shares, 2)
	assertDec(t, "100", shares[0], "lote de $1000")
	assertDec(t, "300", shares[1], "lote de $3000")
}

func TestProrateByValue_SumaExacta(t *testing.T) {
	values := []decimal.Decimal{d("1"), d("1"), d("1"), d("0")}
	shares := pricing.ProrateByValue(d("100"), values)

	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s)
	}
	assertDec(t, "100", sum, "la suma de cuotas es el gasto total")
	assert.True(t, shares[3].IsZero(), "un lote sin valor no recibe gasto")
}

func TestProrateByValue_SinValores(t *testing.T) {
	shares := pricing.ProrateByValue(d("400"), []decimal.Decimal{d("0"), d("0")})
	for _, s := range shares {
		assert.True(t, s.IsZero())
	}
	assert.Empty(t, pricing.ProrateByValue(d("400"), nil))
}

func TestTotalExpenseLocal_PrefiereTasaDelContenedor(t *testing.T) {
	rates := pricing.NewRateTable(
		[]*entity.ExchangeRate{{ContainerID: "c1", CurrencyCode: "USD", Rate: d("330")}},
		[]*entity.Currency{
			{Code: "USD", DefaultRate: d("320")},
			{Code: "EUR", DefaultRate: d("350")},
			{Code: "CUP", DefaultRate: d("1")},
		},
	)
	expenses := []*entity.Expense{
		{CurrencyCode: "USD", Amount: d("10")},  // 3300 con tasa del contenedor
		{CurrencyCode: "EUR", Amount: d("2")},   // 700 con tasa por defecto
		{CurrencyCode: "CUP", Amount: d("500")}, // moneda local
	}

	total, err := pricing.TotalExpenseLocal(expenses, rates)
	require.NoError(t, err)
	assertDec(t, "4500", total, "gasto total en moneda local")
}

func TestTotalExpenseLocal_MonedaSinTasa(t *testing.T) {
	rates := pricing.NewRateTable(nil, nil)
	_, err := pricing.TotalExpenseLocal([]*entity.Expense{{CurrencyCode: "GBP", Amount: d("1")}}, rates)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
