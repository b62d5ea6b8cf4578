package costing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/costeo-importaciones/internal/application/costing"
	"github.com/jhoicas/costeo-importaciones/internal/application/dto"
	"github.com/jhoicas/costeo-importaciones/internal/domain"
	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
	"github.com/jhoicas/costeo-importaciones/pkg/logger"
)

func createRequest() dto.CreateContainerRequest {
	p := percentages()
	return dto.CreateContainerRequest{
		Code:         "CONT-02",
		ImportDate:   "2024-01-10",
		ExchangeRate: d("320"),
		Percentages: dto.PercentagesDTO{
			HardCurrencyPct:     p.HardCurrencyPct,
			FiscalPct:           p.FiscalPct,
			CashPct:             p.CashPct,
			MarginPct:           p.MarginPct,
			ShrinkagePct:        p.ShrinkagePct,
			CommercialMarginPct: p.CommercialMarginPct,
			OtherExpensesPct:    p.OtherExpensesPct,
		},
		Lots: []dto.LotInput{
			{ProductID: "p1", Quantity: d("100"), UnitCostUSD: d("10"), FiscalMedianPrice: d("4500"), CashMedianPrice: d("4000")},
			{ProductID: "p2", Quantity: d("300"), UnitCostUSD: d("10"), FiscalMedianPrice: d("4500"), CashMedianPrice: d("4000")},
		},
		Expenses: []dto.ExpenseInput{{CurrencyCode: "CUP", Amount: d("400"), Type: entity.ExpenseTypeCustoms}},
	}
}

func newContainerUseCase(store *memStore) (*costing.ContainerUseCase, *fakeTxRunner) {
	runner := &fakeTxRunner{store: store}
	return costing.NewContainerUseCase(runner, store.reader(), "CUP", logger.Nop()), runner
}

func TestCreateContainer(t *testing.T) {
	store := newMemStore()
	store.products["p1"] = entity.Product{ID: "p1", Name: "Arroz"}
	store.products["p2"] = entity.Product{ID: "p2", Name: "Frijol"}
	uc, runner := newContainerUseCase(store)

	out, err := uc.CreateContainer(context.Background(), "u1", createRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, runner.commits, "todo en una sola transacción")
	assert.Equal(t, "2024-01-10", out.ImportDate)
	require.Len(t, out.Lots, 2)
	assertDec(t, "100", out.Lots[0].Calculated.ExpenseShare, "prorrateo por valor")
	assertDec(t, "300", out.Lots[1].Calculated.ExpenseShare, "prorrateo por valor")
	assert.True(t, out.Lots[0].Calculated.SalePriceUSD.IsPositive())

	require.Len(t, store.movements, 2)
	for _, m := range store.movements {
		assert.Equal(t, entity.MovementKindEntry, m.Kind)
		assert.Equal(t, "2024-01-10", dto.FormatDate(m.Date), "la entrada es en la fecha de importación")
		assert.Equal(t, "u1", m.CreatedBy)
	}
	assertDec(t, "100", store.inventory["p1"].Quantity, "stock cacheado p1")
	assertDec(t, "300", store.inventory["p2"].Quantity, "stock cacheado p2")
}

func TestCreateContainer_ProductoInexistenteRevierteTodo(t *testing.T) {
	store := newMemStore()
	store.products["p1"] = entity.Product{ID: "p1", Name: "Arroz"}
	uc, runner := newContainerUseCase(store)

	_, err := uc.CreateContainer(context.Background(), "u1", createRequest())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, runner.commits)
	assert.Empty(t, store.containers)
	assert.Empty(t, store.movements)
	assert.Empty(t, store.inventory)
}

func TestCreateContainer_Validaciones(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*dto.CreateContainerRequest)
	}{
		{"fecha inválida", func(r *dto.CreateContainerRequest) { r.ImportDate = "10/01/2024" }},
		{"canales no suman 100", func(r *dto.CreateContainerRequest) { r.Percentages.CashPct = d("10") }},
		{"porcentaje fuera de rango", func(r *dto.CreateContainerRequest) { r.Percentages.MarginPct = d("120") }},
		{"tasa cero", func(r *dto.CreateContainerRequest) { r.ExchangeRate = d("0") }},
		{"lote sin cantidad", func(r *dto.CreateContainerRequest) { r.Lots[0].Quantity = d("0") }},
		{"gasto negativo", func(r *dto.CreateContainerRequest) { r.Expenses[0].Amount = d("-1") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _ := newContainerUseCase(newMemStore())
			req := createRequest()
			tt.apply(&req)
			_, err := uc.CreateContainer(context.Background(), "u1", req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestUpdateLot_AjusteDeCantidad(t *testing.T) {
	store := newMemStore()
	seedScenarioB(store)
	store.inventory["p1"] = entity.Inventory{ProductID: "p1", Quantity: d("100")}
	uc, _ := newContainerUseCase(store)

	qty := d("80")
	out, err := uc.UpdateLot(context.Background(), "u1", "c1", "l1", dto.UpdateLotRequest{Quantity: &qty})
	require.NoError(t, err)
	assertDec(t, "800", out.Lots[0].TotalCostUSD, "valor = 80 * 10")
	assertDec(t, "80", store.inventory["p1"].Quantity, "stock cacheado ajustado")
	require.Len(t, store.movements, 1)
	assert.Equal(t, entity.MovementKindAdjustmentOut, store.movements[0].Kind)
	assertDec(t, "20", store.movements[0].Quantity, "ajuste por la diferencia")

	// 400 * 800 / 3800
	assertDec(t, "84.2105", store.lots["l1"].Calculated.ExpenseShare.Round(4), "el prorrateo usa el nuevo valor")
}

func TestUpdateLot_Errores(t *testing.T) {
	store := newMemStore()
	seedScenarioB(store)
	store.containers["c2"] = entity.Container{ID: "c2", Code: "OTRO", ExchangeRate: d("1"), Percentages: percentages()}
	uc, _ := newContainerUseCase(store)

	qty := d("50")
	_, err := uc.UpdateLot(context.Background(), "u1", "c2", "l1", dto.UpdateLotRequest{Quantity: &qty})
	assert.ErrorIs(t, err, domain.ErrNotFound, "el lote pertenece a otro contenedor")

	_, err = uc.UpdateLot(context.Background(), "u1", "c1", "l1", dto.UpdateLotRequest{Quantity: &qty})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "no hay stock cacheado que descontar")

	neg := d("-1")
	_, err = uc.UpdateLot(context.Background(), "u1", "c1", "l1", dto.UpdateLotRequest{UnitCostUSD: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdatePercentages(t *testing.T) {
	store := newMemStore()
	seedScenarioB(store)
	uc, _ := newContainerUseCase(store)

	bad := dto.PercentagesDTO{HardCurrencyPct: d("50"), FiscalPct: d("10"), CashPct: d("10")}
	_, err := uc.UpdatePercentages(context.Background(), "c1", bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	good := dto.PercentagesDTO{
		HardCurrencyPct: d("80"), FiscalPct: d("10"), CashPct: d("10"),
		MarginPct: d("20"), ShrinkagePct: d("0"), CommercialMarginPct: d("100"), OtherExpensesPct: d("0"),
	}
	out, err := uc.UpdatePercentages(context.Background(), "c1", good)
	require.NoError(t, err)
	assertDec(t, "10", out.Percentages.FiscalPct, "porcentaje guardado")
	assertDec(t, "100", store.lots["l1"].Calculated.SellableQty, "sin merma todo es vendible")
}

func TestExpenses_AgregarYQuitar(t *testing.T) {
	store := newMemStore()
	seedScenarioB(store)
	uc, _ := newContainerUseCase(store)

	out, err := uc.AddExpense(context.Background(), "c1", dto.ExpenseInput{CurrencyCode: "CUP", Amount: d("400")})
	require.NoError(t, err)
	require.Len(t, out.Expenses, 2)
	assertDec(t, "200", store.lots["l1"].Calculated.ExpenseShare, "800 * 1000/4000")

	_, err = uc.RemoveExpense(context.Background(), "c1", "e1")
	require.NoError(t, err)
	assertDec(t, "100", store.lots["l1"].Calculated.ExpenseShare, "queda solo el gasto nuevo")

	_, err = uc.RemoveExpense(context.Background(), "c1", "e1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateContainerRate(t *testing.T) {
	store := newMemStore()
	seedScenarioB(store)
	uc, _ := newContainerUseCase(store)

	_, err := uc.UpdateContainerRate(context.Background(), "c1", dto.ContainerRateRequest{ExchangeRate: d("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := uc.UpdateContainerRate(context.Background(), "c1", dto.ContainerRateRequest{ExchangeRate: d("400")})
	require.NoError(t, err)
	assertDec(t, "400", out.ExchangeRate, "tasa guardada")
	l1 := store.lots["l1"]
	assert.True(t, l1.Calculated.SalePriceLocal.Equal(l1.Calculated.SalePriceUSD.Mul(d("400"))))
}

func TestGetContainer_NoExiste(t *testing.T) {
	uc, _ := newContainerUseCase(newMemStore())
	_, err := uc.GetContainer(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
