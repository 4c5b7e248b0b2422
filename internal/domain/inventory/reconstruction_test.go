package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
)

func tx(typ, qty string) *entity.InventoryTransaction {
	return &entity.InventoryTransaction{Type: typ, Quantity: d(qty)}
}

func TestClassify_CadaDeltaEnUnaColumna(t *testing.T) {
	txs := []*entity.InventoryTransaction{
		tx(entity.TransactionTypePurchase, "100"),
		tx(entity.TransactionTypeSale, "-40"),
		tx(entity.TransactionTypeWaste, "-4"),
		tx(entity.TransactionTypeAdjustment, "-3"),
		tx(entity.TransactionTypeAdjustment, "2"),
		tx(entity.TransactionTypeTransfer, "-10"),
		tx(entity.TransactionTypeTransfer, "7"),
	}
	m := Classify(txs)
	assert.True(t, m.Received.Equal(d("107")))
	assert.True(t, m.Consumed.Equal(d("40")))
	assert.True(t, m.Waste.Equal(d("4")))
	assert.True(t, m.Adjusted.Equal(d("-11")))
	assert.True(t, m.Net().Equal(SumDeltas(txs)))
}

func TestReconstructItem_Identidad(t *testing.T) {
	day := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	item := &entity.InventoryItem{ID: 1, Name: "Leche", Quantity: d("70"), AlertThreshold: d("10"), CostPrice: d("1.5")}
	dayTxs := []*entity.InventoryTransaction{tx(entity.TransactionTypePurchase, "50"), tx(entity.TransactionTypeSale, "-20")}
	later := []*entity.InventoryTransaction{tx(entity.TransactionTypeSale, "-10")}

	row := ReconstructItem(item, dayTxs, later, day, DefaultExpiryWarningDays)
	assert.True(t, row.Closing.Equal(d("80")))
	assert.True(t, row.Opening.Equal(d("50")))
	assert.True(t, row.TotalValue.Equal(d("120")))
	assert.Equal(t, entity.ReportStatusNormal, row.Status)

	empty := ReconstructItem(item, nil, nil, day, DefaultExpiryWarningDays)
	assert.True(t, empty.Opening.Equal(empty.Closing))
}

func TestClassifyReportStatus_Prioridad(t *testing.T) {
	day := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	soon := day.AddDate(0, 0, 7)
	late := day.AddDate(0, 0, 8)

	assert.Equal(t, entity.ReportStatusOutOfStock, ClassifyReportStatus(d("-1"), d("5"), &soon, day, 7))
	assert.Equal(t, entity.ReportStatusOutOfStock, ClassifyReportStatus(d("0"), d("5"), nil, day, 7))
	assert.Equal(t, entity.ReportStatusLowStock, ClassifyReportStatus(d("5"), d("5"), &soon, day, 7))
	assert.Equal(t, entity.ReportStatusExpiringSoon, ClassifyReportStatus(d("6"), d("5"), &soon, day, 7))
	assert.Equal(t, entity.ReportStatusNormal, ClassifyReportStatus(d("6"), d("5"), &late, day, 7))
}

func TestWastePercentage(t *testing.T) {
	assert.True(t, WastePercentage(d("10"), d("200")).Equal(d("5")))
	assert.True(t, WastePercentage(d("10"), d("0")).IsZero())
	assert.True(t, WastePercentage(d("1"), d("3")).Equal(d("33.33")))
}

func TestDayBounds_ZonaHoraria(t *testing.T) {
	bogota := time.FixedZone("COT", -5*3600)
	// 02:00 UTC del 5 de mayo es todavía 4 de mayo en Bogotá
	start, end := DayBounds(time.Date(2026, 5, 5, 2, 0, 0, 0, time.UTC), bogota)
	assert.Equal(t, time.Date(2026, 5, 4, 5, 0, 0, 0, time.UTC), start.UTC())
	assert.Equal(t, 24*time.Hour, end.Sub(start))
}
