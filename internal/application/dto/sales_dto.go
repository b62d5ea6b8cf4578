package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modos de asignación de la bolsa entre productos.
const (
	AllocationManual = "manual"
	AllocationAuto   = "auto"
)

// AllocationInput porcentaje de la bolsa asignado a un producto (modo manual).
type AllocationInput struct {
	ProductID string          `json:"product_id" validate:"required"`
	Percent   decimal.Decimal `json:"percent"`
}

// PreviewRequest body para POST /api/sales/preview y /api/sales/validate-allocation.
// En modo auto se usa ProductIDs (vacío = todos los productos con stock).
type PreviewRequest struct {
	PeriodStart             string            `json:"period_start" validate:"required"`
	PeriodEnd               string            `json:"period_end" validate:"required"`
	TransferIDs             []string          `json:"transfer_ids" validate:"required,min=1"`
	Mode                    string            `json:"mode" validate:"omitempty,oneof=manual auto"`
	Allocations             []AllocationInput `json:"allocations" validate:"dive"`
	ProductIDs              []string          `json:"product_ids"`
	AllowFiscalReassignment bool              `json:"allow_fiscal_reassignment"`
}

// SaleLineDTO línea de venta propuesta o confirmada.
type SaleLineDTO struct {
	Date        string          `json:"date" validate:"required"`
	ProductID   string          `json:"product_id" validate:"required"`
	ProductName string          `json:"product_name"`
	LotID       string          `json:"lot_id" validate:"required"`
	Channel     string          `json:"channel" validate:"required,oneof=USD FISCAL EFECTIVO"`
	Quantity    int64           `json:"quantity" validate:"gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// ChannelUnitsDTO unidades por canal.
type ChannelUnitsDTO struct {
	HardCurrency int64 `json:"usd"`
	Fiscal       int64 `json:"fiscal"`
	Cash         int64 `json:"cash"`
}

// ProductDistributionDTO resumen por producto de la vista previa.
type ProductDistributionDTO struct {
	ProductID      string            `json:"product_id"`
	Name           string            `json:"name"`
	LotID          string            `json:"lot_id"`
	Percent        decimal.Decimal   `json:"percent"`
	AssignedAmount decimal.Decimal   `json:"assigned_amount"`
	TotalRevenue   decimal.Decimal   `json:"total_revenue"`
	Money          ChannelAmountsDTO `json:"money"`
	Prices         ChannelAmountsDTO `json:"prices"`
	Units          ChannelUnitsDTO   `json:"units"`
	CoveredAmount  decimal.Decimal   `json:"covered_amount"`
	Reassigned     bool              `json:"reassigned"`
}

// ExclusionDTO producto que no entró en la distribución.
type ExclusionDTO struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Reason    string `json:"reason"`
}

// PreviewResponse vista previa de la distribución (no persiste nada).
type PreviewResponse struct {
	PeriodStart   string                   `json:"period_start"`
	PeriodEnd     string                   `json:"period_end"`
	TransferIDs   []string                 `json:"transfer_ids"`
	TransferTotal decimal.Decimal          `json:"transfer_total"`
	TransferDays  []string                 `json:"transfer_days"`
	OtherDays     []string                 `json:"other_days"`
	Lines         []SaleLineDTO            `json:"lines"`
	Products      []ProductDistributionDTO `json:"products"`
	Excluded      []ExclusionDTO           `json:"excluded"`
	Total         decimal.Decimal          `json:"total"`
}

// ValidateStockRequest body para POST /api/sales/validate-stock: líneas de una vista previa.
type ValidateStockRequest struct {
	PeriodEnd string        `json:"period_end" validate:"required"`
	Lines     []SaleLineDTO `json:"lines" validate:"required,min=1,dive"`
}

// ProductStockDTO detalle por producto de una validación de stock.
type ProductStockDTO struct {
	ProductID         string           `json:"product_id"`
	Name              string           `json:"name"`
	Required          decimal.Decimal  `json:"required"`
	Available         decimal.Decimal  `json:"available"`
	AllocatedAmount   *decimal.Decimal `json:"allocated_amount,omitempty"`
	MaxTransferAmount *decimal.Decimal `json:"max_transfer_amount,omitempty"`
}

// StockValidationResponse resultado de validar stock (post-hoc o previo).
type StockValidationResponse struct {
	Valid    bool              `json:"valid"`
	Reasons  []string          `json:"reasons"`
	Products []ProductStockDTO `json:"products"`
}

// ValidateDatesRequest body para POST /api/sales/validate-dates.
// AsOf es la fecha a la que se resuelve el lote FIFO (normalmente el fin del período).
type ValidateDatesRequest struct {
	TransferIDs []string `json:"transfer_ids" validate:"required,min=1"`
	ProductIDs  []string `json:"product_ids" validate:"required,min=1"`
	AsOf        string   `json:"as_of" validate:"required"`
}

// ExcludedProductDTO producto cuyo lote FIFO se importó después de la transferencia.
type ExcludedProductDTO struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	ImportDate  string `json:"import_date,omitempty"`
	Reason      string `json:"reason"`
}

// DateConflictDTO transferencia con los productos que no pueden respaldarla.
type DateConflictDTO struct {
	TransferID   string               `json:"transfer_id"`
	TransferDate string               `json:"transfer_date"`
	Products     []ExcludedProductDTO `json:"products"`
}

// DateValidationResponse resultado de la validación de fechas.
type DateValidationResponse struct {
	Valid     bool              `json:"valid"`
	Conflicts []DateConflictDTO `json:"conflicts"`
}

// ConfirmSaleRequest body para POST /api/sales: la vista previa aceptada.
type ConfirmSaleRequest struct {
	PeriodStart string        `json:"period_start" validate:"required"`
	PeriodEnd   string        `json:"period_end" validate:"required"`
	TransferIDs []string      `json:"transfer_ids" validate:"required,min=1"`
	Lines       []SaleLineDTO `json:"lines" validate:"required,min=1,dive"`
}

// SaleResponse venta confirmada.
type SaleResponse struct {
	ID          string            `json:"id"`
	PeriodStart string            `json:"period_start"`
	PeriodEnd   string            `json:"period_end"`
	Total       decimal.Decimal   `json:"total"`
	Totals      ChannelAmountsDTO `json:"totals"`
	TransferIDs []string          `json:"transfer_ids"`
	Lines       []SaleLineDTO     `json:"lines"`
	CreatedAt   time.Time         `json:"created_at"`
	CreatedBy   string            `json:"created_by"`
}

// StockResponse stock de un producto a una fecha (kardex).
type StockResponse struct {
	ProductID string          `json:"product_id"`
	Date      string          `json:"date"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ProductResponse producto del catálogo con su saldo actual.
type ProductResponse struct {
	ID       string          `json:"id"`
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	PackSize int64           `json:"pack_size"`
	Stock    decimal.Decimal `json:"stock"`
}
