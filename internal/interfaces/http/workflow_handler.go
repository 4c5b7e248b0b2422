package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-insumos/internal/application/dto"
	"github.com/jhoicas/Inventario-insumos/internal/application/inventory"
)

// WorkflowHandler ajustes manuales y conteos físicos. Aprobar y rechazar requieren rol
// admin o manager (ver Router).
type WorkflowHandler struct {
	adjustments *inventory.AdjustmentUseCase
	counts      *inventory.StockCountUseCase
}

func NewWorkflowHandler(adjustments *inventory.AdjustmentUseCase, counts *inventory.StockCountUseCase) *WorkflowHandler {
	return &WorkflowHandler{adjustments: adjustments, counts: counts}
}

// ── Ajustes ───────────────────────────────────────────────────────────────────

// CreateAdjustment godoc
// @Summary      Crear ajuste manual (queda pendiente de aprobación)
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAdjustmentRequest  true  "reason, items con cantidad con signo"
// @Success      201   {object}  dto.OperationResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *WorkflowHandler) CreateAdjustment(c *fiber.Ctx) error {
	userID, branchID, ok := identity(c)
	if !ok {
		return nil
	}
	var in dto.CreateAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	adj, err := h.adjustments.Create(c.Context(), branchID, userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusCreated, adj)
}

// GetAdjustment GET /api/inventory/adjustments/:id
func (h *WorkflowHandler) GetAdjustment(c *fiber.Ctx) error {
	_, branchID, ok := identity(c)
	if !ok {
		return nil
	}
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	adj, err := h.adjustments.Get(c.Context(), branchID, id)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusOK, adj)
}

// ApproveAdjustment POST /api/inventory/adjustments/:id/approve. Publica los movimientos en el libro.
func (h *WorkflowHandler) ApproveAdjustment(c *fiber.Ctx) error {
	return h.review(c, h.adjustments.Approve)
}

// RejectAdjustment POST /api/inventory/adjustments/:id/reject
func (h *WorkflowHandler) RejectAdjustment(c *fiber.Ctx) error {
	return h.review(c, h.adjustments.Reject)
}

type reviewFunc func(ctx context.Context, branchID, reviewerID, id int64, notes string) (*dto.AdjustmentResponse, error)

func (h *WorkflowHandler) review(c *fiber.Ctx, fn reviewFunc) error {
	userID, branchID, ok := identity(c)
	if !ok {
		return nil
	}
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	var in dto.ReviewAdjustmentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "INVALID_BODY", "cuerpo inválido")
		}
	}
	if err := dto.Validate(in); err != nil {
		return respondError(c, err)
	}
	adj, err := fn(c.Context(), branchID, userID, id, in.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusOK, adj)
}

// ── Conteos físicos ───────────────────────────────────────────────────────────

// CreateCount godoc
// @Summary      Crear conteo físico (borrador con lo esperado según el snapshot)
// @Tags         counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockCountRequest  false  "item_ids vacío = todos"
// @Success      201   {object}  dto.OperationResult
// @Router       /api/inventory/counts [post]
func (h *WorkflowHandler) CreateCount(c *fiber.Ctx) error {
	userID, branchID, ok := identity(c)
	if !ok {
		return nil
	}
	var in dto.CreateStockCountRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "INVALID_BODY", "cuerpo inválido")
		}
	}
	sc, err := h.counts.Create(c.Context(), branchID, userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusCreated, sc)
}

// GetCount GET /api/inventory/counts/:id
func (h *WorkflowHandler) GetCount(c *fiber.Ctx) error {
	return h.countStep(c, h.counts.Get)
}

// StartCount POST /api/inventory/counts/:id/start
func (h *WorkflowHandler) StartCount(c *fiber.Ctx) error {
	return h.countStep(c, h.counts.Start)
}

// CancelCount POST /api/inventory/counts/:id/cancel
func (h *WorkflowHandler) CancelCount(c *fiber.Ctx) error {
	return h.countStep(c, h.counts.Cancel)
}

// CompleteCount POST /api/inventory/counts/:id/complete
func (h *WorkflowHandler) CompleteCount(c *fiber.Ctx) error {
	userID := GetUserID(c)
	return h.countStep(c, func(ctx context.Context, branchID, id int64) (*dto.StockCountResponse, error) {
		return h.counts.Complete(ctx, branchID, userID, id)
	})
}

// PostVariance POST /api/inventory/counts/:id/post-variance. Genera un ajuste aprobado con las diferencias.
func (h *WorkflowHandler) PostVariance(c *fiber.Ctx) error {
	userID := GetUserID(c)
	return h.countStep(c, func(ctx context.Context, branchID, id int64) (*dto.StockCountResponse, error) {
		return h.counts.PostVariance(ctx, branchID, userID, id)
	})
}

// RecordCount PUT /api/inventory/counts/:id/items/:itemId
func (h *WorkflowHandler) RecordCount(c *fiber.Ctx) error {
	_, branchID, ok := identity(c)
	if !ok {
		return nil
	}
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return nil
	}
	var in dto.RecordCountRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	line, err := h.counts.RecordCount(c.Context(), branchID, id, itemID, in)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusOK, line)
}

func (h *WorkflowHandler) countStep(c *fiber.Ctx, fn func(ctx context.Context, branchID, id int64) (*dto.StockCountResponse, error)) error {
	_, branchID, ok := identity(c)
	if !ok {
		return nil
	}
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	sc, err := fn(c.Context(), branchID, id)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, fiber.StatusOK, sc)
}
