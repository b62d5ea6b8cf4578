package distribution_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/costeo-importaciones/internal/domain"
	"github.com/jhoicas/costeo-importaciones/internal/domain/distribution"
	"github.com/jhoicas/costeo-importaciones/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, expected string, actual decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, d(expected).Equal(actual), "%s: esperado %s, obtenido %s", msg, expected, actual)
}

func TestNormalizePercentages(t *testing.T) {
	out, err := distribution.NormalizePercentages([]distribution.Share{
		{ProductID: "a", Percent: d("30")},
		{ProductID: "b", Percent: d("30")},
		{ProductID: "c", Percent: d("30")},
	})
	require.NoError(t, err)

	total := decimal.Zero
	for _, s := range out {
		total = total.Add(s.Percent)
	}
	assertDec(t, "100", total, "la asignación normalizada suma 100")
	assertDec(t, "33.33", out[0].Percent.Round(2), "primer producto")
}

func TestNormalizePercentages_Errores(t *testing.T) {
	_, err := distribution.NormalizePercentages([]distribution.Share{{ProductID: "a", Percent: d("0")}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = distribution.NormalizePercentages([]distribution.Share{{ProductID: "a", Percent: d("-1")}, {ProductID: "b", Percent: d("10")}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSharesFromStock(t *testing.T) {
	out, err := distribution.SharesFromStock(
		[]string{"a", "b", "sin-stock"},
		map[string]decimal.Decimal{"a": d("100"), "b": d("300")},
	)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assertDec(t, "25", out[0].Percent, "a")
	assertDec(t, "75", out[1].Percent, "b")

	_, err = distribution.SharesFromStock([]string{"x"}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRevenueTargets_EscenarioC(t *testing.T) {
	split := inventory.ChannelSplit{HardCurrencyPct: d("91"), FiscalPct: d("5"), CashPct: d("4")}
	total, money := distribution.RevenueTargets(d("500"), split)

	assertDec(t, "10000", total, "ingreso total = 500 / 5%")
	assertDec(t, "9100", money.HardCurrency, "canal USD")
	assertDec(t, "500", money.Fiscal, "canal fiscal = monto transferido")
	assertDec(t, "400", money.Cash, "canal efectivo")

	total, _ = distribution.RevenueTargets(d("500"), inventory.ChannelSplit{HardCurrencyPct: d("100")})
	assert.True(t, total.IsZero(), "sin porcentaje fiscal no hay ingreso")
}

func TestUnitsFor_Techo(t *testing.T) {
	assert.Equal(t, int64(3), distribution.UnitsFor(d("9100"), d("4320")))
	assert.Equal(t, int64(2), distribution.UnitsFor(d("8640"), d("4320")))
	assert.Equal(t, int64(0), distribution.UnitsFor(d("100"), d("0")))
	assert.Equal(t, int64(0), distribution.UnitsFor(d("0"), d("10")))
}

func TestMaxTransferAmount(t *testing.T) {
	split := inventory.ChannelSplit{HardCurrencyPct: d("91"), FiscalPct: d("5"), CashPct: d("4")}
	prices := inventory.ChannelPrices{HardCurrency: d("1000"), Fiscal: d("100"), Cash: d("50")}

	// 0.91/1000 + 0.05/100 + 0.04/50 = 0.00221 unidades por peso de ingreso
	assertDec(t, "100000", distribution.MaxCoverableRevenue(d("221"), split, prices), "ingreso máximo")
	assertDec(t, "5000", distribution.MaxTransferAmount(d("221"), split, prices), "5% fiscal del ingreso")

	assert.True(t, distribution.MaxTransferAmount(d("0"), split, prices).IsZero(), "sin stock")
	prices.Cash = d("0")
	assert.True(t, distribution.MaxTransferAmount(d("221"), split, prices).IsZero(), "canal con porcentaje y sin precio")
}
