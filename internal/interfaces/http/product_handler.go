package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/costeo-importaciones/internal/application/dto"
)

// stockService lo implementa *sales.StockQueryUseCase.
type stockService interface {
	ListProducts(ctx context.Context) ([]dto.ProductResponse, error)
	GetStock(ctx context.Context, productID, date string) (*dto.StockResponse, error)
}

// ProductHandler catálogo y stock histórico (protegido).
type ProductHandler struct {
	uc stockService
}

// NewProductHandler construye el handler de productos.
func NewProductHandler(uc stockService) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// List godoc
// @Summary      Listar productos con saldo actual
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.ListProducts(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// GetStock godoc
// @Summary      Stock del producto a una fecha
// @Description  Suma los movimientos del kardex hasta el cierre del día indicado.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true   "ID del producto"
// @Param        date  query  string  false  "YYYY-MM-DD (vacío = hoy)"
// @Success      200   {object}  dto.StockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock [get]
func (h *ProductHandler) GetStock(c *fiber.Ctx) error {
	out, err := h.uc.GetStock(c.UserContext(), c.Params("id"), c.Query("date"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
