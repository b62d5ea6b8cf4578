package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-importaciones/internal/domain"
)

// LotCalculation son los campos calculados que se guardan en cada lote tras un recálculo.
type LotCalculation struct {
	ExpenseShare     decimal.Decimal // gasto prorrateado (moneda local)
	UnitCostUSD      decimal.Decimal
	GrossUnitCostUSD decimal.Decimal
	SellableQty      decimal.Decimal
	ShrinkageQty     decimal.Decimal
	SalePriceUSD     decimal.Decimal
	SalePriceLocal   decimal.Decimal
	TotalRevenue     decimal.Decimal
	TotalTaxes       decimal.Decimal
	TrueGrossProfit  decimal.Decimal
	CalculatedAt     time.Time
}

// Lot es un lote de producto importado dentro de un contenedor.
// ShrinkagePct y MarginPct se sobrescriben con los valores del contenedor en cada recálculo.
type Lot struct {
	ID                string
	ContainerID       string
	ProductID         string
	Quantity          decimal.Decimal
	UnitCostUSD       decimal.Decimal
	TotalCostUSD      decimal.Decimal
	ShrinkagePct      decimal.Decimal
	MarginPct         decimal.Decimal
	FiscalMedianPrice decimal.Decimal // moneda local
	CashMedianPrice   decimal.Decimal // moneda local, antes del descuento de efectivo
	Calculated        LotCalculation
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewLot construye un lote validado. TotalCostUSD = Quantity * UnitCostUSD.
func NewLot(id, containerID, productID string, qty, unitCostUSD, fiscalMedian, cashMedian decimal.Decimal, now time.Time) (*Lot, error) {
	if id == "" || containerID == "" || productID == "" {
		return nil, domain.Invalid("lote sin id, contenedor o producto")
	}
	if !qty.IsPositive() {
		return nil, domain.Invalid("cantidad del lote debe ser positiva: %s", qty)
	}
	if unitCostUSD.IsNegative() || fiscalMedian.IsNegative() || cashMedian.IsNegative() {
		return nil, domain.Invalid("costos y precios del lote no pueden ser negativos")
	}
	return &Lot{
		ID:                id,
		ContainerID:       containerID,
		ProductID:         productID,
		Quantity:          qty,
		UnitCostUSD:       unitCostUSD,
		TotalCostUSD:      qty.Mul(unitCostUSD),
		FiscalMedianPrice: fiscalMedian,
		CashMedianPrice:   cashMedian,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}
