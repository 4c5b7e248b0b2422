package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-insumos/internal/application/dto"
	"github.com/jhoicas/Inventario-insumos/internal/application/inventory"
)

// RuleHandler administra las reglas de consumo producto → insumo.
type RuleHandler struct {
	uc *inventory.ConsumptionRuleUseCase
}

func NewRuleHandler(uc *inventory.ConsumptionRuleUseCase) *RuleHandler {
	return &RuleHandler{uc: uc}
}

// List GET /api/inventory/rules?product_id=&material_id=
func (h *RuleHandler) List(c *fiber.Ctx) error {
	productID, err := optionalID(c.Query("product_id"))
	if err != nil {
		return badRequest(c, "VALIDATION", "product_id inválido")
	}
	materialID, err := optionalID(c.Query("material_id"))
	if err != nil {
		return badRequest(c, "VALIDATION", "material_id inválido")
	}
	rules, err := h.uc.List(c.Context(), productID, materialID)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusOK, rules)
}

// Create godoc
// @Summary      Crear regla de consumo
// @Tags         rules
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateConsumptionRuleRequest  true  "product_id, material_id, quantity, waste_factor, condición opcional"
// @Success      201   {object}  dto.OperationResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/rules [post]
func (h *RuleHandler) Create(c *fiber.Ctx) error {
	userID, _, ok := identity(c)
	if !ok {
		return nil
	}
	var in dto.CreateConsumptionRuleRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	rule, err := h.uc.Create(c.Context(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusCreated, rule)
}

// Deactivate POST /api/inventory/rules/:id/deactivate
func (h *RuleHandler) Deactivate(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	if err := h.uc.Deactivate(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusOK, nil)
}

// Preview POST /api/inventory/rules/preview. No escribe nada.
func (h *RuleHandler) Preview(c *fiber.Ctx) error {
	var in dto.PreviewConsumptionRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if err := dto.Validate(in); err != nil {
		return respondError(c, err)
	}
	res, err := h.uc.Preview(c.Context(), in.ProductID, in.Quantity, in.Options)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusOK, res)
}

func optionalID(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return nil, strconv.ErrSyntax
	}
	return &id, nil
}
