package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-importaciones/internal/domain/entity"
	"github.com/jhoicas/costeo-importaciones/internal/domain/pricing"
)

// LotCandidate es un lote con los datos de su contenedor necesarios para FIFO y precios.
type LotCandidate struct {
	Lot          *entity.Lot
	ImportDate   time.Time
	ExchangeRate decimal.Decimal // tasa del contenedor
	Split        ChannelSplit
}

// ChannelSplit porcentajes por canal del contenedor del lote.
type ChannelSplit struct {
	HardCurrencyPct decimal.Decimal
	FiscalPct       decimal.Decimal
	CashPct         decimal.Decimal
}

// ChannelPrices precios unitarios por canal en moneda local.
type ChannelPrices struct {
	HardCurrency decimal.Decimal
	Fiscal       decimal.Decimal
	Cash         decimal.Decimal
}

// ForChannel devuelve el precio del canal indicado.
func (p ChannelPrices) ForChannel(channel string) decimal.Decimal {
	switch channel {
	case entity.ChannelHardCurrency:
		return p.HardCurrency
	case entity.ChannelFiscal:
		return p.Fiscal
	case entity.ChannelCash:
		return p.Cash
	}
	return decimal.Zero
}

// ForChannel devuelve el porcentaje del canal indicado.
func (s ChannelSplit) ForChannel(channel string) decimal.Decimal {
	switch channel {
	case entity.ChannelHardCurrency:
		return s.HardCurrencyPct
	case entity.ChannelFiscal:
		return s.FiscalPct
	case entity.ChannelCash:
		return s.CashPct
	}
	return decimal.Zero
}

// ChannelPrices deriva los tres precios del lote:
// USD = precio de venta USD cacheado * tasa del contenedor; fiscal = mediana fiscal;
// efectivo = mediana de efectivo * 0.90.
func (c LotCandidate) ChannelPrices() ChannelPrices {
	return ChannelPrices{
		HardCurrency: c.Lot.Calculated.SalePriceUSD.Mul(c.ExchangeRate),
		Fiscal:       c.Lot.FiscalMedianPrice,
		Cash:         c.Lot.CashMedianPrice.Mul(pricing.CashDiscountFactor),
	}
}

// SelectFIFO elige el lote más antiguo (fecha de importación mínima) con fecha <= asOf,
// comparando solo fechas. Empates por ID de lote. false si no hay ninguno.
func SelectFIFO(candidates []LotCandidate, asOf time.Time) (LotCandidate, bool) {
	limit := entity.DateOnly(asOf)
	eligible := make([]LotCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Lot == nil || entity.DateOnly(c.ImportDate).After(limit) {
			continue
		}
		eligible = append(eligible, c)
	}
	if len(eligible) == 0 {
		return LotCandidate{}, false
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		a, b := entity.DateOnly(eligible[i].ImportDate), entity.DateOnly(eligible[j].ImportDate)
		if !a.Equal(b) {
			return a.Before(b)
		}
		return eligible[i].Lot.ID < eligible[j].Lot.ID
	})
	return eligible[0], true
}
