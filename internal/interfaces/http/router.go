package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-insumos/internal/application/inventory"
)

// Roles que pueden aprobar o rechazar ajustes.
var reviewerRoles = []string{"admin", "manager"}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Materials        *inventory.MaterialUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Rules            *inventory.ConsumptionRuleUseCase
	OrderConsumption *inventory.OrderConsumptionUseCase
	Reports          *inventory.DailyReportUseCase
	Adjustments      *inventory.AdjustmentUseCase
	StockCounts      *inventory.StockCountUseCase
	Location         *time.Location
	JWTSecret        string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	inv := api.Group("/inventory")

	// Insumos y libro
	inventoryHandler := NewInventoryHandler(deps.Materials, deps.RegisterMovement, deps.Location)
	inv.Get("/materials", inventoryHandler.ListMaterials)
	inv.Post("/materials", inventoryHandler.CreateMaterial)
	inv.Get("/materials/:id", inventoryHandler.GetMaterial)
	inv.Post("/movements", inventoryHandler.RegisterMovement)
	inv.Get("/movements", inventoryHandler.ListMovements)

	// Reglas de consumo
	ruleHandler := NewRuleHandler(deps.Rules)
	inv.Get("/rules", ruleHandler.List)
	inv.Post("/rules", ruleHandler.Create)
	inv.Post("/rules/preview", ruleHandler.Preview)
	inv.Post("/rules/:id/deactivate", ruleHandler.Deactivate)

	// Reportes diarios
	reportHandler := NewReportHandler(deps.Reports)
	inv.Post("/reports", reportHandler.Generate)
	inv.Get("/reports/:id", reportHandler.Get)
	inv.Get("/reports/:id/csv", reportHandler.ExportCSV)
	inv.Get("/reports/:id/pdf", reportHandler.ExportPDF)

	// Ajustes y conteos
	wf := NewWorkflowHandler(deps.Adjustments, deps.StockCounts)
	inv.Post("/adjustments", wf.CreateAdjustment)
	inv.Get("/adjustments/:id", wf.GetAdjustment)
	inv.Post("/adjustments/:id/approve", RequireRole(reviewerRoles...), wf.ApproveAdjustment)
	inv.Post("/adjustments/:id/reject", RequireRole(reviewerRoles...), wf.RejectAdjustment)

	inv.Post("/counts", wf.CreateCount)
	inv.Get("/counts/:id", wf.GetCount)
	inv.Post("/counts/:id/start", wf.StartCount)
	inv.Put("/counts/:id/items/:itemId", wf.RecordCount)
	inv.Post("/counts/:id/complete", wf.CompleteCount)
	inv.Post("/counts/:id/cancel", wf.CancelCount)
	inv.Post("/counts/:id/post-variance", RequireRole(reviewerRoles...), wf.PostVariance)

	// Órdenes (el registro de la orden vive en otro servicio)
	orderHandler := NewOrderHandler(deps.OrderConsumption)
	api.Post("/orders/:id/consume", orderHandler.Consume)
}
