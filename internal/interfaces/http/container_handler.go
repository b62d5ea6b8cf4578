package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/costeo-importaciones/internal/application/dto"
)

// containerService lo implementa *costing.ContainerUseCase.
type containerService interface {
	CreateContainer(ctx context.Context, userID string, in dto.CreateContainerRequest) (*dto.ContainerResponse, error)
	GetContainer(ctx context.Context, id string) (*dto.ContainerResponse, error)
	AddLot(ctx context.Context, userID, containerID string, in dto.LotInput) (*dto.ContainerResponse, error)
	UpdateLot(ctx context.Context, userID, containerID, lotID string, in dto.UpdateLotRequest) (*dto.ContainerResponse, error)
	AddExpense(ctx context.Context, containerID string, in dto.ExpenseInput) (*dto.ContainerResponse, error)
	RemoveExpense(ctx context.Context, containerID, expenseID string) (*dto.ContainerResponse, error)
	SetExchangeRate(ctx context.Context, containerID string, in dto.ExchangeRateRequest) (*dto.ContainerResponse, error)
	UpdateContainerRate(ctx context.Context, containerID string, in dto.ContainerRateRequest) (*dto.ContainerResponse, error)
	UpdatePercentages(ctx context.Context, containerID string, in dto.PercentagesDTO) (*dto.ContainerResponse, error)
}

// recalculateService lo implementa *costing.RecalculateUseCase.
type recalculateService interface {
	RecalculateContainer(ctx context.Context, containerID string) (*dto.RecalculationResponse, error)
}

// ContainerHandler contenedores, lotes, gastos, tasas y recálculo (protegido).
type ContainerHandler struct {
	containers  containerService
	recalculate recalculateService
	calculate   func(dto.PricingRequest) (*dto.PricingResponse, error)
}

// NewContainerHandler construye el handler. calculate es el cálculo puro sin persistencia.
func NewContainerHandler(containers containerService, recalculate recalculateService, calculate func(dto.PricingRequest) (*dto.PricingResponse, error)) *ContainerHandler {
	return &ContainerHandler{containers: containers, recalculate: recalculate, calculate: calculate}
}

// Create godoc
// @Summary      Crear contenedor con lotes y gastos
// @Tags         containers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateContainerRequest  true  "contenedor"
// @Success      201   {object}  dto.ContainerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/containers [post]
func (h *ContainerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateContainerRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.containers.CreateContainer(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener contenedor
// @Tags         containers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del contenedor"
// @Success      200  {object}  dto.ContainerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/containers/{id} [get]
func (h *ContainerHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.containers.GetContainer(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddLot godoc
// @Summary      Agregar lote (registra ENTRADA y recalcula)
// @Tags         containers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string        true  "ID del contenedor"
// @Param        body  body  dto.LotInput  true  "lote"
// @Success      201   {object}  dto.ContainerResponse
// @Router       /api/containers/{id}/lots [post]
func (h *ContainerHandler) AddLot(c *fiber.Ctx) error {
	var in dto.LotInput
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.containers.AddLot(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateLot godoc
// @Summary      Modificar lote (cambio de cantidad registra AJUSTE)
// @Tags         containers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id     path  string                true  "ID del contenedor"
// @Param        lotId  path  string                true  "ID del lote"
// @Param        body   body  dto.UpdateLotRequest  true  "campos a cambiar"
// @Success      200    {object}  dto.ContainerResponse
// @Router       /api/containers/{id}/lots/{lotId} [put]
func (h *ContainerHandler) UpdateLot(c *fiber.Ctx) error {
	var in dto.UpdateLotRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.containers.UpdateLot(c.UserContext(), GetUserID(c), c.Params("id"), c.Params("lotId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddExpense godoc
// @Summary      Agregar gasto
// @Tags         containers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "ID del contenedor"
// @Param        body  body  dto.ExpenseInput  true  "gasto"
// @Success      201   {object}  dto.ContainerResponse
// @Router       /api/containers/{id}/expenses [post]
func (h *ContainerHandler) AddExpense(c *fiber.Ctx) error {
	var in dto.ExpenseInput
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.containers.AddExpense(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RemoveExpense godoc
// @Summary      Eliminar gasto
// @Tags         containers
// @Security     Bearer
// @Produce      json
// @Param        id         path  string  true  "ID del contenedor"
// @Param        expenseId  path  string  true  "ID del gasto"
// @Success      200        {object}  dto.ContainerResponse
// @Router       /api/containers/{id}/expenses/{expenseId} [delete]
func (h *ContainerHandler) RemoveExpense(c *fiber.Ctx) error {
	out, err := h.containers.RemoveExpense(c.UserContext(), c.Params("id"), c.Params("expenseId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetExchangeRate godoc
// @Summary      Fijar tasa de una moneda de gasto
// @Tags         containers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del contenedor"
// @Param        body  body  dto.ExchangeRateRequest  true  "moneda y tasa"
// @Success      200   {object}  dto.ContainerResponse
// @Router       /api/containers/{id}/rates [put]
func (h *ContainerHandler) SetExchangeRate(c *fiber.Ctx) error {
	var in dto.ExchangeRateRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.containers.SetExchangeRate(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateContainerRate godoc
// @Summary      Cambiar tasa USD del contenedor
// @Tags         containers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del contenedor"
// @Param        body  body  dto.ContainerRateRequest  true  "tasa"
// @Success      200   {object}  dto.ContainerResponse
// @Router       /api/containers/{id}/exchange-rate [put]
func (h *ContainerHandler) UpdateContainerRate(c *fiber.Ctx) error {
	var in dto.ContainerRateRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.containers.UpdateContainerRate(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdatePercentages godoc
// @Summary      Cambiar porcentajes globales del contenedor
// @Tags         containers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del contenedor"
// @Param        body  body  dto.PercentagesDTO  true  "porcentajes"
// @Success      200   {object}  dto.ContainerResponse
// @Router       /api/containers/{id}/percentages [put]
func (h *ContainerHandler) UpdatePercentages(c *fiber.Ctx) error {
	var in dto.PercentagesDTO
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.containers.UpdatePercentages(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Recalculate godoc
// @Summary      Recalcular precios de todos los lotes
// @Tags         containers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del contenedor"
// @Success      200  {object}  dto.RecalculationResponse
// @Router       /api/containers/{id}/recalculate [post]
func (h *ContainerHandler) Recalculate(c *fiber.Ctx) error {
	out, err := h.recalculate.RecalculateContainer(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CalculatePricing godoc
// @Summary      Calcular precios sin persistir
// @Tags         pricing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PricingRequest  true  "entradas del cálculo"
// @Success      200   {object}  dto.PricingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/pricing/calculate [post]
func (h *ContainerHandler) CalculatePricing(c *fiber.Ctx) error {
	var in dto.PricingRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.calculate(in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
