package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-importaciones/internal/domain"
	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
)

// RateTable resuelve la tasa de una moneda hacia la moneda local para un contenedor:
// primero la tasa registrada en el contenedor, si no la tasa por defecto de la moneda.
type RateTable struct {
	overrides map[string]decimal.Decimal
	defaults  map[string]decimal.Decimal
}

// NewRateTable construye la tabla a partir de las tasas del contenedor y el catálogo de monedas.
func NewRateTable(overrides []*entity.ExchangeRate, currencies []*entity.Currency) RateTable {
	t := RateTable{
		overrides: make(map[string]decimal.Decimal, len(overrides)),
		defaults:  make(map[string]decimal.Decimal, len(currencies)),
	}
	for _, r := range overrides {
		t.overrides[r.CurrencyCode] = r.Rate
	}
	for _, c := range currencies {
		t.defaults[c.Code] = c.DefaultRate
	}
	return t
}

// Rate devuelve la tasa para la moneda o ErrNotFound si no hay ni tasa de contenedor ni por defecto.
func (t RateTable) Rate(currency string) (decimal.Decimal, error) {
	if r, ok := t.overrides[currency]; ok {
		return r, nil
	}
	if r, ok := t.defaults[currency]; ok {
		return r, nil
	}
	return decimal.Zero, fmt.Errorf("%w: tasa para la moneda %s", domain.ErrNotFound, currency)
}

// TotalExpenseLocal suma los gastos del contenedor convertidos a moneda local.
func TotalExpenseLocal(expenses []*entity.Expense, rates RateTable) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range expenses {
		rate, err := rates.Rate(e.CurrencyCode)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(e.Amount.Mul(rate))
	}
	return total, nil
}

// ProrateByValue reparte total entre los lotes en proporción a su valor invertido
// (no a la cantidad de unidades). Si la suma de valores es cero, todas las cuotas son cero.
// El último lote con valor positivo absorbe el residuo de la división para que
// la suma de cuotas sea exactamente total.
func ProrateByValue(total decimal.Decimal, values []decimal.Decimal) []decimal.Decimal {
	shares := make([]decimal.Decimal, len(values))
	sum := decimal.Zero
	last := -1
	for i, v := range values {
		shares[i] = decimal.Zero
		sum = sum.Add(v)
		if v.IsPositive() {
			last = i
		}
	}
	if sum.IsZero() || last < 0 {
		return shares
	}
	assigned := decimal.Zero
	for i, v := range values {
		if i == last {
			continue
		}
		shares[i] = total.Mul(v).Div(sum)
		assigned = assigned.Add(shares[i])
	}
	shares[last] = total.Sub(assigned)
	return shares
}
