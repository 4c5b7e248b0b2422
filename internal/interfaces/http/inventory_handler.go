package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-insumos/internal/application/dto"
	"github.com/jhoicas/Inventario-insumos/internal/application/inventory"
)

// InventoryHandler expone insumos y movimientos manuales del libro (protegido).
type InventoryHandler struct {
	materials *inventory.MaterialUseCase
	movements *inventory.RegisterMovementUseCase
	loc       *time.Location
}

// NewInventoryHandler construye el handler. loc define los días calendario de los filtros from/to.
func NewInventoryHandler(materials *inventory.MaterialUseCase, movements *inventory.RegisterMovementUseCase, loc *time.Location) *InventoryHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &InventoryHandler{materials: materials, movements: movements, loc: loc}
}

// ListMaterials godoc
// @Summary      Listar insumos de la sucursal
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        status     query  string  false  "in_stock | low_stock | out_of_stock | discontinued"
// @Param        category   query  string  false  "Categoría"
// @Param        search     query  string  false  "Texto en el nombre"
// @Param        low_stock  query  bool    false  "Solo bajo umbral"
// @Success      200  {object}  dto.OperationResult
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/materials [get]
func (h *InventoryHandler) ListMaterials(c *fiber.Ctx) error {
	_, branchID, ok := identity(c)
	if !ok {
		return nil
	}
	var q dto.MaterialFilterQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros de consulta inválidos")
	}
	list, err := h.materials.List(c.Context(), branchID, q)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusOK, list)
}

// GetMaterial GET /api/inventory/materials/:id
func (h *InventoryHandler) GetMaterial(c *fiber.Ctx) error {
	_, branchID, ok := identity(c)
	if !ok {
		return nil
	}
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	m, err := h.materials.GetByID(c.Context(), branchID, id)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusOK, m)
}

// CreateMaterial godoc
// @Summary      Crear insumo
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMaterialRequest  true  "name, unit, alert_threshold, cost_price, initial_quantity"
// @Success      201   {object}  dto.OperationResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/materials [post]
func (h *InventoryHandler) CreateMaterial(c *fiber.Ctx) error {
	userID, branchID, ok := identity(c)
	if !ok {
		return nil
	}
	var in dto.CreateMaterialRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	m, err := h.materials.Create(c.Context(), branchID, userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusCreated, m)
}

// RegisterMovement godoc
// @Summary      Registrar movimiento manual (compra, merma, traslado)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "item_id, type, quantity, unit_cost (compras)"
// @Success      201   {object}  dto.OperationResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	userID, branchID, ok := identity(c)
	if !ok {
		return nil
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	posted, err := h.movements.RegisterMovementFromRequest(c.Context(), branchID, userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusCreated, posted)
}

// ListMovements GET /api/inventory/movements?item_id=&type=&from=&to=
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	_, branchID, ok := identity(c)
	if !ok {
		return nil
	}
	var q dto.MovementFilterQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros de consulta inválidos")
	}
	list, err := h.movements.ListMovements(c.Context(), branchID, q, h.loc)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusOK, list)
}
