package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-repuestos/internal/application/dto"
	"github.com/jhoicas/pos-repuestos/internal/application/usecase"
)

// PartnerHandler clientes, proveedores y sus cuentas.
type PartnerHandler struct {
	uc  *usecase.PartnerUseCase
	log zerolog.Logger
}

// NewPartnerHandler construye el handler.
func NewPartnerHandler(uc *usecase.PartnerUseCase, log zerolog.Logger) *PartnerHandler {
	return &PartnerHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear socio (cliente o proveedor)
// @Tags         partners
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePartnerRequest  true  "Datos del socio"
// @Success      201   {object}  dto.PartnerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/partners [post]
func (h *PartnerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePartnerRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in, PerformedBy(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Estado de cuenta del socio
// @Tags         partners
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del socio"
// @Success      200  {object}  dto.PartnerStatementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/partners/{id} [get]
func (h *PartnerHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar socios
// @Tags         partners
// @Security     Bearer
// @Produce      json
// @Param        type  query  string  false  "CLIENT | SUPPLIER"
// @Success      200   {array}  dto.PartnerResponse
// @Router       /api/partners [get]
func (h *PartnerHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Query("type"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// RecordTransaction godoc
// @Summary      Registrar factura o pago en la cuenta del socio
// @Tags         partners
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del socio"
// @Param        body  body  dto.RecordTransactionRequest  true  "Asiento (monto positivo)"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/partners/{id}/transactions [post]
func (h *PartnerHandler) RecordTransaction(c *fiber.Ctx) error {
	var in dto.RecordTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.RecordTransaction(c.UserContext(), c.Params("id"), in, PerformedBy(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Transactions godoc
// @Summary      Asientos del socio
// @Tags         partners
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del socio"
// @Success      200  {array}  dto.TransactionResponse
// @Router       /api/partners/{id}/transactions [get]
func (h *PartnerHandler) Transactions(c *fiber.Ctx) error {
	out, err := h.uc.Transactions(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
