// Package pdf genera la representación PDF del reporte diario de existencias.
//
// Layout de la página A4 horizontal:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Reporte diario + sucursal │ Fecha + generado       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Valor total / Consumo / Merma % / Alertas         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Insumo | Apertura | Entradas | Consumo | Merma |    │
//	│         Ajuste | Cierre | Valor | Estado                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/Inventario-insumos/internal/application/inventory"
	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
)

var _ inventory.ReportPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 176, Green: 32, Blue: 32}
	colorWarn    = &props.Color{Red: 191, Green: 120, Blue: 0}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa inventory.ReportPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador. Los números se formatean en español (1.234,50).
func NewMarotoPDFGenerator() *MarotoPDFGenerator {
	return &MarotoPDFGenerator{printer: message.NewPrinter(language.Spanish)}
}

// GenerateDailyReportPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateDailyReportPDF(_ context.Context, report *entity.DailyStockReport, currency string) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Reporte diario de existencias", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.summaryRow(report, currency))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, it := range report.Items {
		m.AddRows(g.itemRow(it))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoPDFGenerator) headerRow(report *entity.DailyStockReport) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("REPORTE DIARIO DE EXISTENCIAS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Sucursal #%d   |   %d insumos", report.BranchID, report.TotalItems), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Fecha: "+report.ReportDate.Format("02/01/2006"), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1,
			}),
			text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func (g *MarotoPDFGenerator) summaryRow(report *entity.DailyStockReport, currency string) core.Row {
	block := func(label, value string, color *props.Color) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Top: 5, Color: color}),
		)
	}
	alerts := fmt.Sprintf("%d bajo / %d agotado", report.LowStockCount, report.OutOfStockCount)
	alertColor := colorPrimary
	if report.OutOfStockCount > 0 {
		alertColor = colorAlert
	}
	return row.New(14).Add(
		block("VALOR DEL INVENTARIO", g.money(report.TotalValue, currency), colorPrimary),
		block("CONSUMO DEL DÍA", g.qty(report.TotalConsumption), colorPrimary),
		block("MERMA", g.qty(report.TotalWaste)+" ("+g.printer.Sprintf("%.2f", f(report.WastePercentage))+"%)", colorPrimary),
		block("ALERTAS", alerts, alertColor),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Insumo", 3, align.Left),
		h("Apertura", 1, align.Right),
		h("Entradas", 1, align.Right),
		h("Consumo", 1, align.Right),
		h("Merma", 1, align.Right),
		h("Ajuste", 1, align.Right),
		h("Cierre", 1, align.Right),
		h("Valor", 2, align.Right),
		h("Estado", 1, align.Center),
	)
}

func (g *MarotoPDFGenerator) itemRow(it entity.DailyStockReportItem) core.Row {
	num := func(d decimal.Decimal) core.Col {
		return col.New(1).Add(text.New(g.qty(d), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}))
	}
	return row.New(6).Add(
		col.New(3).Add(text.New(fmt.Sprintf("%s (%s)", it.ItemName, it.Unit), props.Text{Size: 8, Top: 1, Left: 1})),
		num(it.Opening),
		num(it.Received),
		num(it.Consumed),
		num(it.Waste),
		num(it.Adjusted),
		num(it.Closing),
		col.New(2).Add(text.New(g.money(it.TotalValue, ""), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(1).Add(text.New(statusLabel(it.Status), props.Text{
			Size: 7, Align: align.Center, Top: 1, Color: statusColor(it.Status),
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func f(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}

func (g *MarotoPDFGenerator) qty(d decimal.Decimal) string {
	return g.printer.Sprintf("%.2f", f(d))
}

func (g *MarotoPDFGenerator) money(d decimal.Decimal, currency string) string {
	s := "$" + g.printer.Sprintf("%.2f", f(d))
	if currency != "" {
		s += " " + currency
	}
	return s
}

func statusLabel(status string) string {
	switch status {
	case entity.ReportStatusOutOfStock:
		return "Agotado"
	case entity.ReportStatusLowStock:
		return "Bajo"
	case entity.ReportStatusExpiringSoon:
		return "Por vencer"
	default:
		return "Normal"
	}
}

func statusColor(status string) *props.Color {
	switch status {
	case entity.ReportStatusOutOfStock:
		return colorAlert
	case entity.ReportStatusLowStock, entity.ReportStatusExpiringSoon:
		return colorWarn
	default:
		return colorGray
	}
}
