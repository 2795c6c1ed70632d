package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-repuestos/internal/infrastructure/spool"
)

// SpoolHandler expone la cola local de lotes pendientes.
type SpoolHandler struct {
	spool    *spool.Spool
	replayer *spool.Replayer
	log      zerolog.Logger
}

// NewSpoolHandler construye el handler.
func NewSpoolHandler(s *spool.Spool, r *spool.Replayer, log zerolog.Logger) *SpoolHandler {
	return &SpoolHandler{spool: s, replayer: r, log: log}
}

type spoolStatusResponse struct {
	Stats  spool.Stats         `json:"stats"`
	Failed []spool.FailedEntry `json:"failed"`
}

// Status godoc
// @Summary      Estado de la cola local
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  spoolStatusResponse
// @Router       /api/admin/spool [get]
func (h *SpoolHandler) Status(c *fiber.Ctx) error {
	ctx := c.UserContext()
	stats, err := h.spool.Stats(ctx)
	if err != nil {
		return respondError(c, h.log, err)
	}
	failed, err := h.spool.Failed(ctx)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(spoolStatusResponse{Stats: stats, Failed: failed})
}

// Replay godoc
// @Summary      Reenviar los lotes pendientes
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  spool.DrainResult
// @Router       /api/admin/spool/replay [post]
func (h *SpoolHandler) Replay(c *fiber.Ctx) error {
	res, err := h.replayer.Drain(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(res)
}

// Requeue godoc
// @Summary      Volver a encolar un lote fallido
// @Tags         admin
// @Security     Bearer
// @Param        id   path  string  true  "ID del lote"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/spool/{id}/requeue [post]
func (h *SpoolHandler) Requeue(c *fiber.Ctx) error {
	if err := h.spool.Requeue(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
