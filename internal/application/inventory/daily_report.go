package inventory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/Inventario-insumos/internal/domain"
	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
	"github.com/jhoicas/Inventario-insumos/internal/domain/inventory"
	"github.com/jhoicas/Inventario-insumos/internal/domain/repository"
	"github.com/jhoicas/Inventario-insumos/pkg/logger"
)

// ReportPDFGenerator genera la representación PDF de un reporte diario.
type ReportPDFGenerator interface {
	GenerateDailyReportPDF(ctx context.Context, report *entity.DailyStockReport, currency string) ([]byte, error)
}

// ReportConfig parámetros del generador de reportes.
type ReportConfig struct {
	Location          *time.Location // define el día calendario
	ExpiryWarningDays int
	Currency          string
}

// DailyReportUseCase reconstruye el reporte diario de existencias de una sucursal a partir
// del snapshot y del libro. Cada (sucursal, fecha) se genera una sola vez.
type DailyReportUseCase struct {
	txRunner TxRunner
	repos    Repositories
	pdf      ReportPDFGenerator
	cfg      ReportConfig
	log      *logger.Logger
	group    singleflight.Group
	now      func() time.Time
}

// NewDailyReportUseCase construye el generador.
func NewDailyReportUseCase(txRunner TxRunner, repos Repositories, pdf ReportPDFGenerator, cfg ReportConfig, log *logger.Logger) *DailyReportUseCase {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.ExpiryWarningDays <= 0 {
		cfg.ExpiryWarningDays = inventory.DefaultExpiryWarningDays
	}
	if log == nil {
		log = logger.Nop()
	}
	return &DailyReportUseCase{
		txRunner: txRunner,
		repos:    repos,
		pdf:      pdf,
		cfg:      cfg,
		log:      log.Named("daily_report"),
		now:      time.Now,
	}
}

// ParseReportDate interpreta YYYY-MM-DD en la zona horaria configurada.
func (uc *DailyReportUseCase) ParseReportDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, s, uc.cfg.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q", domain.ErrInvalidInput, s)
	}
	return d, nil
}

// GenerateDailyReport devuelve el reporte de la sucursal para el día de date.
// Si ya existe se devuelve tal cual (created = false); no se regenera.
func (uc *DailyReportUseCase) GenerateDailyReport(ctx context.Context, branchID int64, date time.Time, userID int64) (*entity.DailyStockReport, bool, error) {
	if branchID <= 0 {
		return nil, false, domain.ErrInvalidInput
	}
	start, end := inventory.DayBounds(date, uc.cfg.Location)
	if start.After(uc.now()) {
		return nil, false, fmt.Errorf("%w: no se puede generar un reporte de una fecha futura", domain.ErrInvalidInput)
	}

	existing, err := uc.repos.Reports.GetByBranchAndDate(ctx, branchID, start)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	type outcome struct {
		report  *entity.DailyStockReport
		created bool
	}
	// La generación compartida no se cancela si un solicitante se desconecta;
	// cada llamador deja de esperar cuando su propio ctx termina.
	key := strconv.FormatInt(branchID, 10) + ":" + start.Format(dateLayout)
	ch := uc.group.DoChan(key, func() (interface{}, error) {
		report, created, err := uc.generate(context.WithoutCancel(ctx), branchID, start, end, userID)
		return outcome{report: report, created: created}, err
	})
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		out := res.Val.(outcome)
		return out.report, out.created, nil
	}
}

func (uc *DailyReportUseCase) generate(ctx context.Context, branchID int64, start, end time.Time, userID int64) (*entity.DailyStockReport, bool, error) {
	var report *entity.DailyStockReport
	err := uc.txRunner.RunRepeatableRead(ctx, func(ctx context.Context, repos Repositories) error {
		items, err := repos.Items.ListByBranch(ctx, branchID, repository.ItemFilter{})
		if err != nil {
			return err
		}
		// Todo lo registrado desde el inicio del día: lo del día arma las columnas,
		// lo posterior se descuenta del snapshot para llegar al cierre.
		txs, err := repos.Transactions.List(ctx, repository.TransactionFilter{BranchID: &branchID, From: &start})
		if err != nil {
			return err
		}
		dayTxs := make(map[int64][]*entity.InventoryTransaction)
		laterTxs := make(map[int64][]*entity.InventoryTransaction)
		for _, tx := range txs {
			if tx.CreatedAt.Before(end) {
				dayTxs[tx.ItemID] = append(dayTxs[tx.ItemID], tx)
			} else {
				laterTxs[tx.ItemID] = append(laterTxs[tx.ItemID], tx)
			}
		}

		lines := make([]entity.DailyStockReportItem, 0, len(items))
		for _, item := range items {
			// Un insumo creado después del día no existía en esa fecha
			if !item.CreatedAt.IsZero() && !item.CreatedAt.Before(end) {
				continue
			}
			lines = append(lines, inventory.ReconstructItem(item, dayTxs[item.ID], laterTxs[item.ID], start, uc.cfg.ExpiryWarningDays))
		}
		totals := inventory.Summarize(lines)

		report = &entity.DailyStockReport{
			BranchID:         branchID,
			ReportDate:       start,
			TotalItems:       len(lines),
			TotalValue:       totals.TotalValue,
			TotalConsumption: totals.TotalConsumption,
			TotalWaste:       totals.TotalWaste,
			WastePercentage:  totals.WastePercentage,
			LowStockCount:    totals.LowStockCount,
			OutOfStockCount:  totals.OutOfStockCount,
			GeneratedBy:      userID,
			GeneratedAt:      uc.now(),
			Items:            lines,
		}
		return repos.Reports.Create(ctx, report)
	})
	if errors.Is(err, domain.ErrDuplicate) {
		// Otro proceso lo generó entre la consulta y el insert: devolver el existente
		existing, gerr := uc.repos.Reports.GetByBranchAndDate(ctx, branchID, start)
		if gerr != nil {
			return nil, false, gerr
		}
		if existing == nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	if err != nil {
		uc.log.Error().Err(err).Int64("branch_id", branchID).Str("date", start.Format(dateLayout)).Msg("generar reporte diario")
		return nil, false, err
	}

	uc.log.Info().
		Int64("branch_id", branchID).
		Str("date", start.Format(dateLayout)).
		Int64("report_id", report.ID).
		Int("items", report.TotalItems).
		Str("waste_pct", report.WastePercentage.String()).
		Msg("reporte diario generado")
	return report, true, nil
}

// GetReport obtiene un reporte por ID.
func (uc *DailyReportUseCase) GetReport(ctx context.Context, id int64) (*entity.DailyStockReport, error) {
	report, err := uc.repos.Reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, domain.ErrNotFound
	}
	return report, nil
}

// ExportReportCSV devuelve el reporte en CSV con el orden de columnas fijo.
func (uc *DailyReportUseCase) ExportReportCSV(ctx context.Context, id int64) ([]byte, error) {
	report, err := uc.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	return ReportCSV(report)
}

// ExportReportPDF genera el PDF del reporte.
func (uc *DailyReportUseCase) ExportReportPDF(ctx context.Context, id int64) ([]byte, error) {
	report, err := uc.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.RenderPDF(ctx, report)
}

// RenderPDF genera el PDF de un reporte ya cargado.
func (uc *DailyReportUseCase) RenderPDF(ctx context.Context, report *entity.DailyStockReport) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("generador PDF no configurado")
	}
	return uc.pdf.GenerateDailyReportPDF(ctx, report, uc.cfg.Currency)
}
