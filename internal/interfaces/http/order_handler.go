package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-insumos/internal/application/inventory"
)

// OrderHandler dispara el descuento de insumos de una orden ya registrada.
type OrderHandler struct {
	uc *inventory.OrderConsumptionUseCase
}

func NewOrderHandler(uc *inventory.OrderConsumptionUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Consume godoc
// @Summary      Procesar consumo de insumos de una orden
// @Description  Idempotente: una segunda llamada responde 409 ALREADY_PROCESSED sin escribir.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la orden"
// @Success      200  {object}  dto.OperationResult
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/consume [post]
func (h *OrderHandler) Consume(c *fiber.Ctx) error {
	userID, branchID, ok := identity(c)
	if !ok {
		return nil
	}
	orderID, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	res, err := h.uc.ProcessOrderConsumption(c.Context(), branchID, orderID, userID)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusOK, res)
}
