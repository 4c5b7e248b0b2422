package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-insumos/internal/domain"
	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
	"github.com/jhoicas/Inventario-insumos/internal/domain/repository"
)

var _ repository.DailyStockReportRepository = (*DailyStockReportRepo)(nil)

const reportColumns = `id, branch_id, report_date, total_items, total_value, total_consumption, total_waste,
	waste_percentage, low_stock_count, out_of_stock_count, generated_by, generated_at`

// DailyStockReportRepo reportes diarios sobre PostgreSQL. Una vez insertados no se modifican.
type DailyStockReportRepo struct {
	q Querier
}

// NewDailyStockReportRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDailyStockReportRepository(q Querier) *DailyStockReportRepo {
	return &DailyStockReportRepo{q: q}
}

// Create inserta cabecera y filas. Devuelve domain.ErrDuplicate si ya hay reporte para (sucursal, fecha).
func (r *DailyStockReportRepo) Create(ctx context.Context, rep *entity.DailyStockReport) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO daily_stock_reports (branch_id, report_date, total_items, total_value, total_consumption,
			total_waste, waste_percentage, low_stock_count, out_of_stock_count, generated_by, generated_at)
		VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		rep.BranchID, rep.ReportDate.Format(time.DateOnly), rep.TotalItems, rep.TotalValue, rep.TotalConsumption,
		rep.TotalWaste, rep.WastePercentage, rep.LowStockCount, rep.OutOfStockCount, rep.GeneratedBy, rep.GeneratedAt,
	).Scan(&rep.ID)
	if err != nil {
		if isUniqueViolation(err, "daily_stock_reports_branch_id_report_date_key") {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create daily stock report: %w", err)
	}

	if len(rep.Items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i := range rep.Items {
		it := &rep.Items[i]
		it.ReportID = rep.ID
		batch.Queue(`
			INSERT INTO daily_stock_report_items (report_id, item_id, item_name, category, unit, opening,
				received, consumed, waste, adjusted, closing, unit_cost, total_value, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			RETURNING id`,
			rep.ID, it.ItemID, it.ItemName, it.Category, it.Unit, it.Opening,
			it.Received, it.Consumed, it.Waste, it.Adjusted, it.Closing, it.UnitCost, it.TotalValue, it.Status,
		).QueryRow(func(row pgx.Row) error {
			return row.Scan(&it.ID)
		})
	}
	if err := r.q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("create daily stock report items: %w", err)
	}
	return nil
}

// GetByID obtiene un reporte con sus filas.
func (r *DailyStockReportRepo) GetByID(ctx context.Context, id int64) (*entity.DailyStockReport, error) {
	return r.get(ctx, `SELECT `+reportColumns+` FROM daily_stock_reports WHERE id = $1`, id)
}

// GetByBranchAndDate obtiene el reporte de la sucursal para el día calendario de date.
func (r *DailyStockReportRepo) GetByBranchAndDate(ctx context.Context, branchID int64, date time.Time) (*entity.DailyStockReport, error) {
	return r.get(ctx, `SELECT `+reportColumns+` FROM daily_stock_reports WHERE branch_id = $1 AND report_date = $2::date`,
		branchID, date.Format(time.DateOnly))
}

func (r *DailyStockReportRepo) get(ctx context.Context, query string, args ...any) (*entity.DailyStockReport, error) {
	var rep entity.DailyStockReport
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&rep.ID, &rep.BranchID, &rep.ReportDate, &rep.TotalItems, &rep.TotalValue, &rep.TotalConsumption,
		&rep.TotalWaste, &rep.WastePercentage, &rep.LowStockCount, &rep.OutOfStockCount, &rep.GeneratedBy, &rep.GeneratedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get daily stock report: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, report_id, item_id, item_name, category, unit, opening, received, consumed,
			waste, adjusted, closing, unit_cost, total_value, status
		FROM daily_stock_report_items WHERE report_id = $1 ORDER BY item_name, id`, rep.ID)
	if err != nil {
		return nil, fmt.Errorf("get daily stock report items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.DailyStockReportItem
		if err := rows.Scan(
			&it.ID, &it.ReportID, &it.ItemID, &it.ItemName, &it.Category, &it.Unit, &it.Opening, &it.Received,
			&it.Consumed, &it.Waste, &it.Adjusted, &it.Closing, &it.UnitCost, &it.TotalValue, &it.Status,
		); err != nil {
			return nil, fmt.Errorf("scan daily stock report item: %w", err)
		}
		rep.Items = append(rep.Items, it)
	}
	return &rep, rows.Err()
}
