package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-insumos/internal/application/dto"
	"github.com/jhoicas/Inventario-insumos/internal/application/inventory"
	"github.com/jhoicas/Inventario-insumos/internal/domain"
	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
)

// ReportHandler genera y exporta el reporte diario de existencias.
type ReportHandler struct {
	uc *inventory.DailyReportUseCase
}

func NewReportHandler(uc *inventory.DailyReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Generate godoc
// @Summary      Generar reporte diario
// @Description  Si ya existe el reporte de la sucursal para la fecha se devuelve sin regenerar (200, created=false).
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GenerateReportRequest  true  "date YYYY-MM-DD"
// @Success      201   {object}  dto.OperationResult
// @Success      200   {object}  dto.OperationResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/reports [post]
func (h *ReportHandler) Generate(c *fiber.Ctx) error {
	userID, branchID, ok := identity(c)
	if !ok {
		return nil
	}
	var in dto.GenerateReportRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if err := dto.Validate(in); err != nil {
		return respondError(c, err)
	}
	date, err := h.uc.ParseReportDate(in.Date)
	if err != nil {
		return respondError(c, err)
	}
	report, created, err := h.uc.GenerateDailyReport(c.Context(), branchID, date, userID)
	if err != nil {
		return respondError(c, err)
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return respondOK(c, status, inventory.ToReportResponse(report, created))
}

// Get GET /api/inventory/reports/:id
func (h *ReportHandler) Get(c *fiber.Ctx) error {
	report, ok := h.load(c)
	if !ok {
		return nil
	}
	return respondOK(c, fiber.StatusOK, inventory.ToReportResponse(report, false))
}

// ExportCSV GET /api/inventory/reports/:id/csv
func (h *ReportHandler) ExportCSV(c *fiber.Ctx) error {
	report, ok := h.load(c)
	if !ok {
		return nil
	}
	body, err := inventory.ReportCSV(report)
	if err != nil {
		return respondError(c, err)
	}
	return attachment(c, "text/csv; charset=utf-8", reportFilename(report, "csv"), body)
}

// ExportPDF GET /api/inventory/reports/:id/pdf
func (h *ReportHandler) ExportPDF(c *fiber.Ctx) error {
	report, ok := h.load(c)
	if !ok {
		return nil
	}
	body, err := h.uc.RenderPDF(c.Context(), report)
	if err != nil {
		return respondError(c, err)
	}
	return attachment(c, "application/pdf", reportFilename(report, "pdf"), body)
}

// load obtiene el reporte y verifica que sea de la sucursal del token.
func (h *ReportHandler) load(c *fiber.Ctx) (*entity.DailyStockReport, bool) {
	_, branchID, ok := identity(c)
	if !ok {
		return nil, false
	}
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}
	report, err := h.uc.GetReport(c.Context(), id)
	if err == nil && report.BranchID != branchID {
		err = domain.ErrForbidden
	}
	if err != nil {
		_ = respondError(c, err)
		return nil, false
	}
	return report, true
}

func reportFilename(r *entity.DailyStockReport, ext string) string {
	return fmt.Sprintf("reporte-%d-%s.%s", r.BranchID, r.ReportDate.Format("2006-01-02"), ext)
}

func attachment(c *fiber.Ctx, contentType, filename string, body []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Status(fiber.StatusOK).Send(body)
}
