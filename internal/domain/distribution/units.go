package distribution

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
	"github.com/jhoicas/costeo-importaciones/internal/domain/inventory"
)

// ChannelMoney objetivo monetario por canal (moneda local).
type ChannelMoney struct {
	HardCurrency decimal.Decimal
	Fiscal       decimal.Decimal
	Cash         decimal.Decimal
}

// ForChannel devuelve el monto del canal indicado.
func (m ChannelMoney) ForChannel(channel string) decimal.Decimal {
	switch channel {
	case entity.ChannelHardCurrency:
		return m.HardCurrency
	case entity.ChannelFiscal:
		return m.Fiscal
	case entity.ChannelCash:
		return m.Cash
	}
	return decimal.Zero
}

// ChannelUnits unidades por canal.
type ChannelUnits struct {
	HardCurrency int64
	Fiscal       int64
	Cash         int64
}

// Total suma las unidades de los tres canales.
func (u ChannelUnits) Total() int64 {
	return u.HardCurrency + u.Fiscal + u.Cash
}

// ForChannel devuelve las unidades del canal indicado.
func (u ChannelUnits) ForChannel(channel string) int64 {
	switch channel {
	case entity.ChannelHardCurrency:
		return u.HardCurrency
	case entity.ChannelFiscal:
		return u.Fiscal
	case entity.ChannelCash:
		return u.Cash
	}
	return 0
}

// RevenueTargets invierte dinero a ingreso: las transferencias son solo el canal fiscal,
// así que el ingreso total del producto es assigned / fiscal%. Ese total se reparte
// por los tres porcentajes de canal. Fiscal% = 0 produce ceros.
func RevenueTargets(assigned decimal.Decimal, split inventory.ChannelSplit) (decimal.Decimal, ChannelMoney) {
	if split.FiscalPct.IsZero() {
		return decimal.Zero, ChannelMoney{}
	}
	total := assigned.Mul(hundred).Div(split.FiscalPct)
	return total, ChannelMoney{
		HardCurrency: total.Mul(split.HardCurrencyPct).Div(hundred),
		Fiscal:       total.Mul(split.FiscalPct).Div(hundred),
		Cash:         total.Mul(split.CashPct).Div(hundred),
	}
}

// UnitsFor convierte dinero a unidades con división techo (nunca vender de menos).
// Precio cero produce cero unidades.
func UnitsFor(money, price decimal.Decimal) int64 {
	if !price.IsPositive() || !money.IsPositive() {
		return 0
	}
	return money.Div(price).Ceil().IntPart()
}

// UnitsForMoney aplica UnitsFor a cada canal.
func UnitsForMoney(money ChannelMoney, prices inventory.ChannelPrices) ChannelUnits {
	return ChannelUnits{
		HardCurrency: UnitsFor(money.HardCurrency, prices.HardCurrency),
		Fiscal:       UnitsFor(money.Fiscal, prices.Fiscal),
		Cash:         UnitsFor(money.Cash, prices.Cash),
	}
}

// CoveredAmount valor monetario de las unidades a sus precios de canal.
func CoveredAmount(units ChannelUnits, prices inventory.ChannelPrices) decimal.Decimal {
	return decimal.NewFromInt(units.HardCurrency).Mul(prices.HardCurrency).
		Add(decimal.NewFromInt(units.Fiscal).Mul(prices.Fiscal)).
		Add(decimal.NewFromInt(units.Cash).Mul(prices.Cash))
}

// MaxCoverableRevenue ingreso total máximo que stock unidades pueden respaldar con este reparto
// por canal: R tal que sum(R * pct_c / precio_c) = stock. Un canal con porcentaje pero sin
// precio no puede venderse y deja el máximo en cero.
func MaxCoverableRevenue(stock decimal.Decimal, split inventory.ChannelSplit, prices inventory.ChannelPrices) decimal.Decimal {
	if !stock.IsPositive() {
		return decimal.Zero
	}
	unitsPerRevenue := decimal.Zero
	for _, ch := range entity.Channels {
		pct := split.ForChannel(ch)
		if !pct.IsPositive() {
			continue
		}
		price := prices.ForChannel(ch)
		if !price.IsPositive() {
			return decimal.Zero
		}
		unitsPerRevenue = unitsPerRevenue.Add(pct.Div(hundred).Div(price))
	}
	if unitsPerRevenue.IsZero() {
		return decimal.Zero
	}
	return stock.Div(unitsPerRevenue)
}

// MaxTransferAmount parte fiscal (transferencias) del ingreso máximo cubrible por el stock.
func MaxTransferAmount(stock decimal.Decimal, split inventory.ChannelSplit, prices inventory.ChannelPrices) decimal.Decimal {
	return MaxCoverableRevenue(stock, split, prices).Mul(split.FiscalPct).Div(hundred)
}
