package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-importaciones/internal/domain"
)

var (
	hundred          = decimal.NewFromInt(100)
	channelTolerance = decimal.NewFromFloat(0.01)
)

// Percentages agrupa los porcentajes globales de un contenedor (importación).
// El reparto por canal (USD, fiscal, efectivo) debe sumar 100.
type Percentages struct {
	HardCurrencyPct     decimal.Decimal // canal USD
	FiscalPct           decimal.Decimal // canal fiscal (cuenta bancaria)
	CashPct             decimal.Decimal // canal efectivo
	MarginPct           decimal.Decimal
	ShrinkagePct        decimal.Decimal // merma
	CommercialMarginPct decimal.Decimal
	OtherExpensesPct    decimal.Decimal
}

// Validate verifica rangos [0,100] y que el reparto por canal sume 100 (±0.01).
func (p Percentages) Validate() error {
	fields := map[string]decimal.Decimal{
		"hard_currency_pct":     p.HardCurrencyPct,
		"fiscal_pct":            p.FiscalPct,
		"cash_pct":              p.CashPct,
		"margin_pct":            p.MarginPct,
		"shrinkage_pct":         p.ShrinkagePct,
		"commercial_margin_pct": p.CommercialMarginPct,
		"other_expenses_pct":    p.OtherExpensesPct,
	}
	for name, v := range fields {
		if v.IsNegative() || v.GreaterThan(hundred) {
			return domain.Invalid("%s fuera de rango [0,100]: %s", name, v)
		}
	}
	sum := p.ChannelSum()
	if sum.Sub(hundred).Abs().GreaterThan(channelTolerance) {
		return domain.Invalid("los porcentajes por canal suman %s, deben sumar 100", sum)
	}
	return nil
}

// ChannelSum suma los tres porcentajes de canal.
func (p Percentages) ChannelSum() decimal.Decimal {
	return p.HardCurrencyPct.Add(p.FiscalPct).Add(p.CashPct)
}

// Container representa una importación: dueña de sus lotes, gastos y tasas.
type Container struct {
	ID           string
	Code         string
	ImportDate   time.Time
	ExchangeRate decimal.Decimal // tasa USD -> moneda local usada para precios
	Percentages  Percentages
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewContainer construye un contenedor validado.
func NewContainer(id, code string, importDate time.Time, rate decimal.Decimal, pct Percentages, now time.Time) (*Container, error) {
	if id == "" || code == "" {
		return nil, domain.Invalid("id y código del contenedor son obligatorios")
	}
	if importDate.IsZero() {
		return nil, domain.Invalid("fecha de importación vacía")
	}
	if !rate.IsPositive() {
		return nil, domain.Invalid("tasa de cambio debe ser positiva: %s", rate)
	}
	if err := pct.Validate(); err != nil {
		return nil, err
	}
	return &Container{
		ID:           id,
		Code:         code,
		ImportDate:   DateOnly(importDate),
		ExchangeRate: rate,
		Percentages:  pct,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// DateOnly trunca un instante a su fecha calendario (UTC), ignorando la hora.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
