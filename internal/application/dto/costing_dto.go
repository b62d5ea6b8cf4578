package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PercentagesDTO porcentajes globales de un contenedor (0-100).
type PercentagesDTO struct {
	HardCurrencyPct     decimal.Decimal `json:"hard_currency_pct"`
	FiscalPct           decimal.Decimal `json:"fiscal_pct"`
	CashPct             decimal.Decimal `json:"cash_pct"`
	MarginPct           decimal.Decimal `json:"margin_pct"`
	ShrinkagePct        decimal.Decimal `json:"shrinkage_pct"`
	CommercialMarginPct decimal.Decimal `json:"commercial_margin_pct"`
	OtherExpensesPct    decimal.Decimal `json:"other_expenses_pct"`
}

// LotInput lote al crear un contenedor o al agregarlo después.
type LotInput struct {
	ProductID         string          `json:"product_id" validate:"required"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitCostUSD       decimal.Decimal `json:"unit_cost_usd"`
	FiscalMedianPrice decimal.Decimal `json:"fiscal_median_price"`
	CashMedianPrice   decimal.Decimal `json:"cash_median_price"`
}

// ExpenseInput gasto del contenedor.
type ExpenseInput struct {
	CurrencyCode string          `json:"currency_code" validate:"required,min=3,max=3"`
	Amount       decimal.Decimal `json:"amount"`
	Type         string          `json:"type" validate:"omitempty,oneof=FLETE ADUANA TRANSPORTE ALMACEN OTRO"`
	Description  string          `json:"description" validate:"max=300"`
}

// CreateContainerRequest body para POST /api/containers.
type CreateContainerRequest struct {
	Code         string          `json:"code" validate:"required,max=60"`
	ImportDate   string          `json:"import_date" validate:"required"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	Percentages  PercentagesDTO  `json:"percentages"`
	Lots         []LotInput      `json:"lots" validate:"dive"`
	Expenses     []ExpenseInput  `json:"expenses" validate:"dive"`
}

// UpdateLotRequest body para PUT /api/containers/:id/lots/:lotId. Solo se aplican los campos presentes.
type UpdateLotRequest struct {
	Quantity          *decimal.Decimal `json:"quantity"`
	UnitCostUSD       *decimal.Decimal `json:"unit_cost_usd"`
	FiscalMedianPrice *decimal.Decimal `json:"fiscal_median_price"`
	CashMedianPrice   *decimal.Decimal `json:"cash_median_price"`
}

// ExchangeRateRequest body para PUT /api/containers/:id/rates.
type ExchangeRateRequest struct {
	CurrencyCode string          `json:"currency_code" validate:"required,min=3,max=3"`
	Rate         decimal.Decimal `json:"rate"`
}

// ContainerRateRequest body para PUT /api/containers/:id/exchange-rate.
type ContainerRateRequest struct {
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
}

// LotCalculationDTO campos cacheados del último recálculo.
type LotCalculationDTO struct {
	ExpenseShare     decimal.Decimal `json:"expense_share"`
	UnitCostUSD      decimal.Decimal `json:"unit_cost_usd"`
	GrossUnitCostUSD decimal.Decimal `json:"gross_unit_cost_usd"`
	SellableQty      decimal.Decimal `json:"sellable_qty"`
	ShrinkageQty     decimal.Decimal `json:"shrinkage_qty"`
	SalePriceUSD     decimal.Decimal `json:"sale_price_usd"`
	SalePriceLocal   decimal.Decimal `json:"sale_price_local"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalTaxes       decimal.Decimal `json:"total_taxes"`
	TrueGrossProfit  decimal.Decimal `json:"true_gross_profit"`
	CalculatedAt     *time.Time      `json:"calculated_at,omitempty"`
}

// LotResponse salida de un lote.
type LotResponse struct {
	ID                string            `json:"id"`
	ProductID         string            `json:"product_id"`
	Quantity          decimal.Decimal   `json:"quantity"`
	UnitCostUSD       decimal.Decimal   `json:"unit_cost_usd"`
	TotalCostUSD      decimal.Decimal   `json:"total_cost_usd"`
	ShrinkagePct      decimal.Decimal   `json:"shrinkage_pct"`
	MarginPct         decimal.Decimal   `json:"margin_pct"`
	FiscalMedianPrice decimal.Decimal   `json:"fiscal_median_price"`
	CashMedianPrice   decimal.Decimal   `json:"cash_median_price"`
	Calculated        LotCalculationDTO `json:"calculated"`
}

// ExpenseResponse salida de un gasto.
type ExpenseResponse struct {
	ID           string          `json:"id"`
	CurrencyCode string          `json:"currency_code"`
	Amount       decimal.Decimal `json:"amount"`
	Type         string          `json:"type"`
	Description  string          `json:"description"`
}

// ExchangeRateResponse tasa registrada en el contenedor.
type ExchangeRateResponse struct {
	CurrencyCode string          `json:"currency_code"`
	Rate         decimal.Decimal `json:"rate"`
}

// ContainerResponse contenedor con lotes, gastos y tasas.
type ContainerResponse struct {
	ID           string                 `json:"id"`
	Code         string                 `json:"code"`
	ImportDate   string                 `json:"import_date"`
	ExchangeRate decimal.Decimal        `json:"exchange_rate"`
	Percentages  PercentagesDTO         `json:"percentages"`
	Lots         []LotResponse          `json:"lots"`
	Expenses     []ExpenseResponse      `json:"expenses"`
	Rates        []ExchangeRateResponse `json:"rates"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// PricingRequest body para POST /api/pricing/calculate (cálculo sin persistir).
type PricingRequest struct {
	Quantity            decimal.Decimal `json:"quantity"`
	ImportValueUSD      decimal.Decimal `json:"import_value_usd"`
	ExpenseShare        decimal.Decimal `json:"expense_share"`
	ShrinkagePct        decimal.Decimal `json:"shrinkage_pct"`
	MarginPct           decimal.Decimal `json:"margin_pct"`
	ExchangeRate        decimal.Decimal `json:"exchange_rate"`
	HardCurrencyPct     decimal.Decimal `json:"hard_currency_pct"`
	FiscalPct           decimal.Decimal `json:"fiscal_pct"`
	CashPct             decimal.Decimal `json:"cash_pct"`
	CommercialMarginPct decimal.Decimal `json:"commercial_margin_pct"`
	FiscalMedianPrice   decimal.Decimal `json:"fiscal_median_price"`
	CashMedianPrice     decimal.Decimal `json:"cash_median_price"`
	OtherExpensesPct    decimal.Decimal `json:"other_expenses_pct"`
}

// ChannelAmountsDTO valores por canal.
type ChannelAmountsDTO struct {
	HardCurrency decimal.Decimal `json:"usd"`
	Fiscal       decimal.Decimal `json:"fiscal"`
	Cash         decimal.Decimal `json:"cash"`
}

// PricingResponse resultado del cálculo, redondeado para serializar.
type PricingResponse struct {
	UnitCostUSD      decimal.Decimal   `json:"unit_cost_usd"`
	ExpensePerUnit   decimal.Decimal   `json:"expense_per_unit"`
	GrossUnitCostUSD decimal.Decimal   `json:"gross_unit_cost_usd"`
	SellableQty      decimal.Decimal   `json:"sellable_qty"`
	ShrinkageQty     decimal.Decimal   `json:"shrinkage_qty"`
	ChannelQty       ChannelAmountsDTO `json:"channel_qty"`
	SalePriceUSD     decimal.Decimal   `json:"sale_price_usd"`
	SalePriceLocal   decimal.Decimal   `json:"sale_price_local"`
	ChannelPrice     ChannelAmountsDTO `json:"channel_price"`
	ChannelRevenue   ChannelAmountsDTO `json:"channel_revenue"`
	TotalRevenue     decimal.Decimal   `json:"total_revenue"`
	Cost             decimal.Decimal   `json:"cost"`
	Expenses         decimal.Decimal   `json:"expenses"`
	Levy             decimal.Decimal   `json:"levy"`
	OtherExpenses    decimal.Decimal   `json:"other_expenses"`
	GrossTotalCost   decimal.Decimal   `json:"gross_total_cost"`
	EstimatedProfit  decimal.Decimal   `json:"estimated_profit"`
	ProfitTax        decimal.Decimal   `json:"profit_tax"`
	TotalTaxes       decimal.Decimal   `json:"total_taxes"`
	TrueGrossProfit  decimal.Decimal   `json:"true_gross_profit"`
	BreakEvenUnits   decimal.Decimal   `json:"break_even_units"`
	BreakEvenPct     decimal.Decimal   `json:"break_even_pct"`
}

// LotPricingResponse resultado del recálculo para un lote.
type LotPricingResponse struct {
	LotID        string          `json:"lot_id"`
	ProductID    string          `json:"product_id"`
	ExpenseShare decimal.Decimal `json:"expense_share"`
	Pricing      PricingResponse `json:"pricing"`
}

// RecalculationResponse resultado de POST /api/containers/:id/recalculate.
type RecalculationResponse struct {
	ContainerID       string               `json:"container_id"`
	TotalExpenseLocal decimal.Decimal      `json:"total_expense_local"`
	Lots              []LotPricingResponse `json:"lots"`
	CalculatedAt      time.Time            `json:"calculated_at"`
}
