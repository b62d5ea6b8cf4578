package distribution_test

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/costeo-importaciones/internal/domain"
	"github.com/jhoicas/costeo-importaciones/internal/domain/distribution"
	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
	"github.com/jhoicas/costeo-importaciones/internal/domain/inventory"
)

func product(id, name string, imported time.Time, percent string) distribution.Product {
	return distribution.Product{
		ProductID:  id,
		Name:       name,
		LotID:      "lot-" + id,
		ImportDate: imported,
		PackSize:   1,
		Prices:     inventory.ChannelPrices{HardCurrency: d("1000"), Fiscal: d("100"), Cash: d("50")},
		Split:      inventory.ChannelSplit{HardCurrencyPct: d("91"), FiscalPct: d("5"), CashPct: d("4")},
		Percent:    d(percent),
	}
}

// semana del 1 al 6 de enero de 2024 con transferencias el martes y el jueves.
func weekRequest(products ...distribution.Product) distribution.Request {
	return distribution.Request{
		Start: jan(1),
		End:   jan(6),
		Transfers: []distribution.Transfer{
			{ID: "t1", Date: jan(2), Amount: d("300")},
			{ID: "t2", Date: jan(4), Amount: d("200")},
		},
		Products: products,
	}
}

func TestDistribute_EscenarioC(t *testing.T) {
	eng := distribution.NewEngine(fixedSource(0.5))
	res, err := eng.Distribute(weekRequest(product("p1", "Arroz", jan(1).AddDate(0, -1, 0), "100")))
	require.NoError(t, err)

	assertDec(t, "500", res.TransferTotal, "bolsa")
	assert.Equal(t, []time.Time{jan(2), jan(4)}, res.TransferDays)
	require.Len(t, res.Products, 1)

	p := res.Products[0]
	assertDec(t, "10000", p.TotalRevenue, "ingreso total")
	assertDec(t, "9100", p.Money.HardCurrency, "dinero canal USD")
	assert.Equal(t, distribution.ChannelUnits{HardCurrency: 10, Fiscal: 5, Cash: 8}, p.Units)
	assert.True(t, p.CoveredAmount.GreaterThanOrEqual(p.TotalRevenue), "las unidades cubren el ingreso")
	assert.False(t, p.Reassigned)
}

func TestDistribute_LineasPorDiaYCanal(t *testing.T) {
	eng := distribution.NewEngine(fixedSource(0.5))
	res, err := eng.Distribute(weekRequest(product("p1", "Arroz", jan(1), "100")))
	require.NoError(t, err)

	type row struct {
		day     int
		channel string
		qty     int64
	}
	want := []row{
		{1, entity.ChannelHardCurrency, 3}, {1, entity.ChannelCash, 2},
		{2, entity.ChannelFiscal, 3},
		{3, entity.ChannelHardCurrency, 3}, {3, entity.ChannelCash, 2},
		{4, entity.ChannelFiscal, 2},
		{5, entity.ChannelHardCurrency, 3}, {5, entity.ChannelCash, 2},
		{6, entity.ChannelHardCurrency, 1}, {6, entity.ChannelCash, 2},
	}
	require.Len(t, res.Lines, len(want))
	for i, w := range want {
		l := res.Lines[i]
		assert.Equal(t, jan(w.day), l.Date, "línea %d", i)
		assert.Equal(t, w.channel, l.Channel, "línea %d", i)
		assert.Equal(t, w.qty, l.Quantity, "línea %d", i)
		assert.True(t, l.Subtotal.Equal(l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))))
	}
	for _, l := range res.Lines {
		if l.Channel == entity.ChannelFiscal {
			assert.Contains(t, res.TransferDays, l.Date, "el canal fiscal solo vende en días de transferencia")
		} else {
			assert.Contains(t, res.OtherDays, l.Date)
		}
	}
	assert.Equal(t, int64(23), res.UnitsByProduct()["p1"])
	assertDec(t, "10900", res.Total(), "total de las líneas")
}

func TestDistribute_OrdenaPorFechaYNombre(t *testing.T) {
	eng := distribution.NewEngine(fixedSource(0.5))
	res, err := eng.Distribute(weekRequest(
		product("p2", "Frijol", jan(1), "30"),
		product("p1", "Arroz", jan(1), "30"),
	))
	require.NoError(t, err)
	require.Len(t, res.Products, 2)
	assertDec(t, "50", res.Products[0].Percent, "porcentajes normalizados")

	for i := 1; i < len(res.Lines); i++ {
		prev, cur := res.Lines[i-1], res.Lines[i]
		if prev.Date.Equal(cur.Date) {
			assert.LessOrEqual(t, prev.ProductName, cur.ProductName)
		} else {
			assert.True(t, prev.Date.Before(cur.Date))
		}
	}
	assert.Equal(t, "Arroz", res.Lines[0].ProductName)
}

func TestDistribute_ConflictoDeFechas(t *testing.T) {
	late := product("p1", "Arroz", jan(5), "100")

	t.Run("sin reasignación queda excluido", func(t *testing.T) {
		res, err := distribution.NewEngine(fixedSource(0.5)).Distribute(weekRequest(late))
		require.NoError(t, err)
		assert.Empty(t, res.Products)
		assert.Empty(t, res.Lines)
		require.Len(t, res.Excluded, 1)
		assert.Equal(t, "p1", res.Excluded[0].ProductID)
		assert.NotEmpty(t, res.Excluded[0].Reason)
	})

	t.Run("con reasignación usa los primeros días válidos", func(t *testing.T) {
		req := weekRequest(late)
		req.AllowFiscalReassignment = true
		res, err := distribution.NewEngine(fixedSource(0.5)).Distribute(req)
		require.NoError(t, err)
		require.Len(t, res.Products, 1)

		p := res.Products[0]
		assert.True(t, p.Reassigned)
		assert.Equal(t, []time.Time{jan(5), jan(6)}, p.FiscalDays)
		for _, l := range res.Lines {
			assert.False(t, l.Date.Before(jan(5)), "nunca se vende antes de la importación")
		}
	})
}

func TestDistribute_ExclusionesPorPrecioOFiscal(t *testing.T) {
	sinFiscal := product("p1", "Arroz", jan(1), "50")
	sinFiscal.Split = inventory.ChannelSplit{HardCurrencyPct: d("100")}
	sinPrecio := product("p2", "Frijol", jan(1), "50")
	sinPrecio.Prices.Cash = d("0")

	res, err := distribution.NewEngine(fixedSource(0.5)).Distribute(weekRequest(sinFiscal, sinPrecio))
	require.NoError(t, err)
	assert.Empty(t, res.Products)
	assert.Len(t, res.Excluded, 2)
}

func TestDistribute_SinLoteConservaSuPorcentaje(t *testing.T) {
	sinLote := product("p2", "Frijol", jan(1), "50")
	sinLote.LotID = ""

	res, err := distribution.NewEngine(fixedSource(0.5)).Distribute(weekRequest(product("p1", "Arroz", jan(1), "50"), sinLote))
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	require.Len(t, res.Excluded, 1)
	assert.Equal(t, "p2", res.Excluded[0].ProductID)
	assertDec(t, "250", res.Products[0].AssignedAmount, "la mitad de la bolsa, sin redistribuir")
}

func TestDistribute_PeriodoInvalido(t *testing.T) {
	req := weekRequest(product("p1", "Arroz", jan(1), "100"))
	req.Start, req.End = jan(6), jan(1)
	_, err := distribution.NewEngine(fixedSource(0.5)).Distribute(req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDistribute_SemillaFijaEsReproducible(t *testing.T) {
	req := weekRequest(product("p1", "Arroz", jan(1), "60"), product("p2", "Frijol", jan(1), "40"))
	a, err := distribution.NewEngine(rand.New(rand.NewPCG(1, 2))).Distribute(req)
	require.NoError(t, err)
	b, err := distribution.NewEngine(rand.New(rand.NewPCG(1, 2))).Distribute(req)
	require.NoError(t, err)

	assert.Equal(t, a.Lines, b.Lines)
	for _, p := range a.Products {
		assert.Equal(t, p.Units.Total(), a.UnitsByProduct()[p.ProductID], "todas las unidades llegan a las líneas")
	}
}
