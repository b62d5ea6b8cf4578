package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/costeo-importaciones/internal/application/dto"
)

// previewService lo implementa *sales.PreviewUseCase.
type previewService interface {
	PreviewDistribution(ctx context.Context, in dto.PreviewRequest) (*dto.PreviewResponse, error)
}

// stockValidationService lo implementa *sales.StockValidator.
type stockValidationService interface {
	ValidateDistribution(ctx context.Context, in dto.ValidateStockRequest) (*dto.StockValidationResponse, error)
	ValidateAllocation(ctx context.Context, in dto.PreviewRequest) (*dto.StockValidationResponse, error)
}

// dateValidationService lo implementa *sales.DateValidator.
type dateValidationService interface {
	ValidateDates(ctx context.Context, in dto.ValidateDatesRequest) (*dto.DateValidationResponse, error)
}

// saleService lo implementa *sales.ConfirmSaleUseCase.
type saleService interface {
	ConfirmSale(ctx context.Context, userID string, in dto.ConfirmSaleRequest) (*dto.SaleResponse, error)
	DeleteSale(ctx context.Context, userID, saleID string) error
	GetSale(ctx context.Context, saleID string) (*dto.SaleResponse, error)
}

// saleReportService lo implementa *sales.SaleReportUseCase.
type saleReportService interface {
	DownloadSaleReport(ctx context.Context, saleID string) ([]byte, string, error)
}

// SalesHandler distribución, validaciones y ventas (protegido).
type SalesHandler struct {
	preview previewService
	stock   stockValidationService
	dates   dateValidationService
	sales   saleService
	report  saleReportService
}

// NewSalesHandler construye el handler.
func NewSalesHandler(p previewService, stock stockValidationService, dates dateValidationService, sales saleService, report saleReportService) *SalesHandler {
	return &SalesHandler{preview: p, stock: stock, dates: dates, sales: sales, report: report}
}

// Preview godoc
// @Summary      Vista previa de la distribución de ventas
// @Description  Reparte el total de las transferencias entre productos, canales y días. No persiste nada.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PreviewRequest  true  "período, transferencias y asignación"
// @Success      200   {object}  dto.PreviewResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/preview [post]
func (h *SalesHandler) Preview(c *fiber.Ctx) error {
	var in dto.PreviewRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.preview.PreviewDistribution(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ValidateStock godoc
// @Summary      Validar stock de una distribución
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ValidateStockRequest  true  "líneas y cierre del período"
// @Success      200   {object}  dto.StockValidationResponse
// @Router       /api/sales/validate-stock [post]
func (h *SalesHandler) ValidateStock(c *fiber.Ctx) error {
	var in dto.ValidateStockRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.stock.ValidateDistribution(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ValidateAllocation godoc
// @Summary      Validación previa de stock y liquidez de una asignación
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PreviewRequest  true  "misma entrada que la vista previa"
// @Success      200   {object}  dto.StockValidationResponse
// @Router       /api/sales/validate-allocation [post]
func (h *SalesHandler) ValidateAllocation(c *fiber.Ctx) error {
	var in dto.PreviewRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.stock.ValidateAllocation(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ValidateDates godoc
// @Summary      Validar fechas de importación contra transferencias
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ValidateDatesRequest  true  "transferencias, productos y fecha de corte FIFO"
// @Success      200   {object}  dto.DateValidationResponse
// @Router       /api/sales/validate-dates [post]
func (h *SalesHandler) ValidateDates(c *fiber.Ctx) error {
	var in dto.ValidateDatesRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.dates.ValidateDates(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Confirm godoc
// @Summary      Confirmar venta
// @Description  Persiste la venta, descuenta inventario y vincula las transferencias en una sola transacción.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConfirmSaleRequest  true  "venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SalesHandler) Confirm(c *fiber.Ctx) error {
	var in dto.ConfirmSaleRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.sales.ConfirmSale(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SalesHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.sales.GetSale(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Anular venta (devuelve stock y libera transferencias)
// @Tags         sales
// @Security     Bearer
// @Param        id   path  string  true  "ID de la venta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *SalesHandler) Delete(c *fiber.Ctx) error {
	if err := h.sales.DeleteSale(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Report godoc
// @Summary      Descargar PDF de la venta
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/report [get]
func (h *SalesHandler) Report(c *fiber.Ctx) error {
	pdf, filename, err := h.report.DownloadSaleReport(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(pdf)
}
