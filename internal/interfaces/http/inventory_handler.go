package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-repuestos/internal/application/dto"
	"github.com/jhoicas/pos-repuestos/internal/application/usecase"
)

// InventoryHandler recepción de mercancía y libro de stock.
type InventoryHandler struct {
	supplies *usecase.SupplyUseCase
	products *usecase.ProductUseCase
	log      zerolog.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(supplies *usecase.SupplyUseCase, products *usecase.ProductUseCase, log zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{supplies: supplies, products: products, log: log}
}

// ReceiveSupply godoc
// @Summary      Registrar aprovisionamiento (entrada de stock con costo promedio)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveSupplyRequest  true  "Proveedor y líneas"
// @Success      201   {object}  dto.SupplyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/supplies [post]
func (h *InventoryHandler) ReceiveSupply(c *fiber.Ctx) error {
	var in dto.ReceiveSupplyRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.supplies.Receive(c.UserContext(), in, PerformedBy(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListSupplies godoc
// @Summary      Listar aprovisionamientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "YYYY-MM-DD"
// @Param        end_date    query  string  false  "YYYY-MM-DD"
// @Success      200  {array}  dto.SupplyResponse
// @Router       /api/supplies [get]
func (h *InventoryHandler) ListSupplies(c *fiber.Ctx) error {
	out, err := h.supplies.List(c.UserContext(), dateRangeFromQuery(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetSupply godoc
// @Summary      Obtener aprovisionamiento
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.SupplyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/supplies/{id} [get]
func (h *InventoryHandler) GetSupply(c *fiber.Ctx) error {
	out, err := h.supplies.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Historial de movimientos de stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Producto"
// @Param        type        query  string  false  "IN | OUT"
// @Param        start_date  query  string  false  "YYYY-MM-DD"
// @Param        end_date    query  string  false  "YYYY-MM-DD"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	out, err := h.products.Movements(c.UserContext(), dto.MovementListRequest{
		ProductID:        c.Query("product_id"),
		Type:             c.Query("type"),
		DateRangeRequest: dateRangeFromQuery(c),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
