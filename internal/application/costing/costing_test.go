package costing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/costeo-importaciones/internal/application/costing"
	"github.com/jhoicas/costeo-importaciones/internal/application/dto"
	"github.com/jhoicas/costeo-importaciones/internal/domain"
	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
	"github.com/jhoicas/costeo-importaciones/pkg/logger"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, expected string, actual decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, d(expected).Equal(actual), "%s: esperado %s, obtenido %s", msg, expected, actual)
}

func percentages() entity.Percentages {
	return entity.Percentages{
		HardCurrencyPct:     d("91"),
		FiscalPct:           d("5"),
		CashPct:             d("4"),
		MarginPct:           d("15"),
		ShrinkagePct:        d("2"),
		CommercialMarginPct: d("85"),
		OtherExpensesPct:    d("3"),
	}
}

// seedScenarioB: contenedor con lotes de $1000 y $3000 y un gasto local de 400.
func seedScenarioB(s *memStore) {
	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	s.containers["c1"] = entity.Container{ID: "c1", Code: "CONT-01", ImportDate: jan, ExchangeRate: d("320"), Percentages: percentages()}
	for _, l := range []entity.Lot{
		{ID: "l1", ContainerID: "c1", ProductID: "p1", Quantity: d("100"), UnitCostUSD: d("10"), TotalCostUSD: d("1000"), ShrinkagePct: d("7"), MarginPct: d("40"), FiscalMedianPrice: d("4500"), CashMedianPrice: d("4000")},
		{ID: "l2", ContainerID: "c1", ProductID: "p2", Quantity: d("300"), UnitCostUSD: d("10"), TotalCostUSD: d("3000"), FiscalMedianPrice: d("4500"), CashMedianPrice: d("4000")},
	} {
		s.lots[l.ID] = l
		s.lotOrder = append(s.lotOrder, l.ID)
	}
	s.expenses["e1"] = entity.Expense{ID: "e1", ContainerID: "c1", CurrencyCode: "CUP", Amount: d("400"), Type: entity.ExpenseTypeFreight}
	s.products["p1"] = entity.Product{ID: "p1", Code: "ARZ", Name: "Arroz", PackSize: 10}
	s.products["p2"] = entity.Product{ID: "p2", Code: "FRJ", Name: "Frijol", PackSize: 12}
}

func TestRecalculateContainer_EscenarioB(t *testing.T) {
	store := newMemStore()
	seedScenarioB(store)
	uc := costing.NewRecalculateUseCase(&fakeTxRunner{store: store}, "CUP", logger.Nop())

	out, err := uc.RecalculateContainer(context.Background(), "c1")
	require.NoError(t, err)
	assertDec(t, "400", out.TotalExpenseLocal, "gasto total")
	require.Len(t, out.Lots, 2)
	assertDec(t, "100", out.Lots[0].ExpenseShare, "lote de $1000")
	assertDec(t, "300", out.Lots[1].ExpenseShare, "lote de $3000")

	l1 := store.lots["l1"]
	assertDec(t, "100", l1.Calculated.ExpenseShare, "cuota guardada")
	assertDec(t, "2", l1.ShrinkagePct, "la merma del contenedor reemplaza la del lote")
	assertDec(t, "15", l1.MarginPct, "el margen del contenedor reemplaza el del lote")
	assertDec(t, "98", l1.Calculated.SellableQty, "vendible")
	assert.False(t, l1.Calculated.CalculatedAt.IsZero())
}

func TestRecalculateContainer_TodoONada(t *testing.T) {
	store := newMemStore()
	seedScenarioB(store)
	store.failCalculatedFor = "l2"
	uc := costing.NewRecalculateUseCase(&fakeTxRunner{store: store}, "CUP", logger.Nop())

	_, err := uc.RecalculateContainer(context.Background(), "c1")
	require.Error(t, err)
	assert.True(t, store.lots["l1"].Calculated.CalculatedAt.IsZero(), "el primer lote no queda guardado")
	assertDec(t, "7", store.lots["l1"].ShrinkagePct, "los overrides no cambian si se revierte")
}

func TestRecalculateContainer_Errores(t *testing.T) {
	t.Run("contenedor inexistente", func(t *testing.T) {
		uc := costing.NewRecalculateUseCase(&fakeTxRunner{store: newMemStore()}, "CUP", logger.Nop())
		_, err := uc.RecalculateContainer(context.Background(), "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
	t.Run("moneda sin tasa", func(t *testing.T) {
		store := newMemStore()
		seedScenarioB(store)
		store.expenses["e2"] = entity.Expense{ID: "e2", ContainerID: "c1", CurrencyCode: "GBP", Amount: d("1")}
		uc := costing.NewRecalculateUseCase(&fakeTxRunner{store: store}, "CUP", logger.Nop())
		_, err := uc.RecalculateContainer(context.Background(), "c1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
	t.Run("id vacío", func(t *testing.T) {
		uc := costing.NewRecalculateUseCase(&fakeTxRunner{store: newMemStore()}, "CUP", logger.Nop())
		_, err := uc.RecalculateContainer(context.Background(), "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestRecalculateContainer_SinLotes(t *testing.T) {
	store := newMemStore()
	store.containers["c1"] = entity.Container{ID: "c1", Code: "X", ExchangeRate: d("320"), Percentages: percentages()}
	store.expenses["e1"] = entity.Expense{ID: "e1", ContainerID: "c1", CurrencyCode: "USD", Amount: d("10")}
	uc := costing.NewRecalculateUseCase(&fakeTxRunner{store: store}, "CUP", logger.Nop())

	out, err := uc.RecalculateContainer(context.Background(), "c1")
	require.NoError(t, err)
	assert.Empty(t, out.Lots)
	assertDec(t, "3200", out.TotalExpenseLocal, "gasto en USD a tasa por defecto")
}

func TestRecompute_TasaDelContenedorPrevalece(t *testing.T) {
	store := newMemStore()
	seedScenarioB(store)
	store.expenses = map[string]entity.Expense{
		"e1": {ID: "e1", ContainerID: "c1", CurrencyCode: "USD", Amount: d("10")},
	}
	runner := &fakeTxRunner{store: store}
	uc := costing.NewContainerUseCase(runner, store.reader(), "CUP", logger.Nop())

	_, err := uc.SetExchangeRate(context.Background(), "c1", dto.ExchangeRateRequest{CurrencyCode: "usd", Rate: d("330")})
	require.NoError(t, err)
	total := store.lots["l1"].Calculated.ExpenseShare.Add(store.lots["l2"].Calculated.ExpenseShare)
	assertDec(t, "3300", total, "10 USD a la tasa del contenedor")
}

func TestCalculatePricing_EscenarioA(t *testing.T) {
	out, err := costing.CalculatePricing(dto.PricingRequest{
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
	})
	require.NoError(t, err)
	assertDec(t, "10.0313", out.GrossUnitCostUSD, "costo bruto redondeado a 4")
	assertDec(t, "13.5717", out.SalePriceUSD, "precio USD")
	assertDec(t, "3600", out.ChannelPrice.Cash, "efectivo")

	_, err = costing.CalculatePricing(dto.PricingRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
