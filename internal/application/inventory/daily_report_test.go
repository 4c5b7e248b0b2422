package inventory

import (
	"context"
	"encoding/csv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-insumos/internal/domain"
	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
	"github.com/jhoicas/Inventario-insumos/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: un insumo con movimientos el día anterior, el día del reporte y el siguiente
// ──────────────────────────────────────────────────────────────────────────────

type reportFixture struct {
	store  *memStore
	uc     *DailyReportUseCase
	flour  int64 // con movimientos
	salt   int64 // sin movimientos, bajo umbral
	yeast  int64 // vence pronto
	ledger *Ledger
}

func at(day, hour int) time.Time {
	return time.Date(2026, time.March, day, hour, 0, 0, 0, time.UTC)
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	store := newMemStore()
	f := &reportFixture{store: store, ledger: NewLedger(logger.Nop())}
	f.flour = store.addItem(entity.InventoryItem{
		BranchID: testBranch, Name: "Harina", Category: "secos", Unit: "g",
		AlertThreshold: dec("50"), CostPrice: dec("2"),
	})
	f.salt = store.addItem(entity.InventoryItem{
		BranchID: testBranch, Name: "Sal", Category: "secos", Unit: "g",
		Quantity: dec("30"), AlertThreshold: dec("40"), CostPrice: dec("1"),
	})
	expiry := at(15, 0)
	f.yeast = store.addItem(entity.InventoryItem{
		BranchID: testBranch, Name: "Levadura", Category: "refrigerados", Unit: "g",
		Quantity: dec("100"), AlertThreshold: dec("10"), CostPrice: dec("0.5"), ExpiryDate: &expiry,
	})

	f.post(t, at(9, 10), entity.TransactionTypePurchase, "500")
	f.post(t, at(10, 8), entity.TransactionTypePurchase, "200")
	f.post(t, at(10, 9), entity.TransactionTypeSale, "-200")
	f.post(t, at(10, 12), entity.TransactionTypeWaste, "-10")
	f.post(t, at(10, 15), entity.TransactionTypeAdjustment, "5")
	f.post(t, at(10, 23), entity.TransactionTypeTransfer, "-15")
	f.post(t, at(11, 8), entity.TransactionTypeSale, "-50")

	f.uc = NewDailyReportUseCase(&memTxRunner{store: store}, store.repos(), nil, ReportConfig{Location: time.UTC}, logger.Nop())
	f.uc.now = func() time.Time { return at(12, 9) }
	return f
}

func (f *reportFixture) post(t *testing.T, when time.Time, txType, qty string) {
	t.Helper()
	f.ledger.now = func() time.Time { return when }
	_, err := f.ledger.Post(context.Background(), f.store.repos(), LedgerEntry{
		BatchID: "lote", Type: txType, ReferenceType: entity.ReferenceManual,
		ItemID: f.flour, Quantity: dec(qty), CreatedBy: testUser,
	})
	require.NoError(t, err)
}

func rowFor(r *entity.DailyStockReport, itemID int64) entity.DailyStockReportItem {
	for _, it := range r.Items {
		if it.ItemID == itemID {
			return it
		}
	}
	return entity.DailyStockReportItem{}
}

// ──────────────────────────────────────────────────────────────────────────────
// Casos
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerateDailyReport_ReconstruyeColumnas(t *testing.T) {
	f := newReportFixture(t)
	require.True(t, f.store.item(f.flour).Quantity.Equal(dec("430")))

	report, created, err := f.uc.GenerateDailyReport(context.Background(), testBranch, at(10, 14), testUser)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, at(10, 0), report.ReportDate)
	assert.Equal(t, 3, report.TotalItems)

	row := rowFor(report, f.flour)
	assert.True(t, row.Closing.Equal(dec("480")), "cierre: %s", row.Closing)
	assert.True(t, row.Received.Equal(dec("200")))
	assert.True(t, row.Consumed.Equal(dec("200")))
	assert.True(t, row.Waste.Equal(dec("10")))
	assert.True(t, row.Adjusted.Equal(dec("-10")), "ajuste + traslado: %s", row.Adjusted)
	assert.True(t, row.Opening.Equal(dec("500")), "apertura: %s", row.Opening)
	assert.True(t, row.TotalValue.Equal(dec("960")))
	assert.Equal(t, entity.ReportStatusNormal, row.Status)

	// closing = opening + received - consumed - waste + adjusted
	for _, it := range report.Items {
		net := it.Opening.Add(it.Received).Sub(it.Consumed).Sub(it.Waste).Add(it.Adjusted)
		assert.True(t, net.Equal(it.Closing), "identidad para %s", it.ItemName)
	}

	salt := rowFor(report, f.salt)
	assert.True(t, salt.Opening.Equal(salt.Closing), "sin movimientos apertura = cierre")
	assert.Equal(t, entity.ReportStatusLowStock, salt.Status)
	assert.Equal(t, entity.ReportStatusExpiringSoon, rowFor(report, f.yeast).Status)

	assert.True(t, report.TotalConsumption.Equal(dec("200")))
	assert.True(t, report.TotalWaste.Equal(dec("10")))
	assert.True(t, report.WastePercentage.Equal(dec("5")), "merma %%: %s", report.WastePercentage)
	assert.Equal(t, 1, report.LowStockCount)
	assert.Equal(t, 0, report.OutOfStockCount)
}

func TestGenerateDailyReport_DiaSinMovimientos(t *testing.T) {
	f := newReportFixture(t)

	report, _, err := f.uc.GenerateDailyReport(context.Background(), testBranch, at(8, 0), testUser)
	require.NoError(t, err)
	for _, it := range report.Items {
		assert.True(t, it.Opening.Equal(it.Closing), "%s", it.ItemName)
		assert.True(t, it.Received.IsZero())
		assert.True(t, it.Consumed.IsZero())
	}
	assert.True(t, report.WastePercentage.IsZero())
	flour := rowFor(report, f.flour)
	assert.True(t, flour.Closing.IsZero())
	assert.Equal(t, entity.ReportStatusOutOfStock, flour.Status)
	assert.Equal(t, 1, report.OutOfStockCount)
}

func TestGenerateDailyReport_ExistenteSeDevuelveSinCambios(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()

	first, created, err := f.uc.GenerateDailyReport(ctx, testBranch, at(10, 0), testUser)
	require.NoError(t, err)
	require.True(t, created)

	// Movimientos posteriores no alteran un reporte ya generado
	f.post(t, at(12, 8), entity.TransactionTypeWaste, "-99")

	second, created, err := f.uc.GenerateDailyReport(ctx, testBranch, at(10, 18), testManager)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, rowFor(second, f.flour).Closing.Equal(dec("480")))
	assert.Equal(t, testUser, second.GeneratedBy)
	assert.Equal(t, 1, f.store.reportCreates)
}

func TestGenerateDailyReport_ConcurrenteGeneraUnaVez(t *testing.T) {
	f := newReportFixture(t)
	var wg sync.WaitGroup
	ids := make([]int64, 8)
	errs := make([]error, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, _, err := f.uc.GenerateDailyReport(context.Background(), testBranch, at(10, 0), testUser)
			errs[i] = err
			if r != nil {
				ids[i] = r.ID
			}
		}(i)
	}
	wg.Wait()
	for i := range ids {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	assert.Equal(t, 1, f.store.reportCreates)
}

// gatedRunner retiene la transacción del reporte hasta que el test la libera.
// Como pgx, falla si el ctx recibido ya fue cancelado.
type gatedRunner struct {
	*memTxRunner
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (r *gatedRunner) RunRepeatableRead(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	r.once.Do(func() { close(r.started) })
	<-r.release
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.memTxRunner.RunRepeatableRead(ctx, fn)
}

func TestGenerateDailyReport_CancelarUnSolicitanteNoAfectaALosDemas(t *testing.T) {
	f := newReportFixture(t)
	runner := &gatedRunner{memTxRunner: &memTxRunner{store: f.store}, started: make(chan struct{}), release: make(chan struct{})}
	f.uc.txRunner = runner

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, _, err := f.uc.GenerateDailyReport(firstCtx, testBranch, at(10, 0), testUser)
		firstErr <- err
	}()
	<-runner.started

	type result struct {
		report *entity.DailyStockReport
		err    error
	}
	second := make(chan result, 1)
	go func() {
		r, _, err := f.uc.GenerateDailyReport(context.Background(), testBranch, at(10, 0), testUser)
		second <- result{r, err}
	}()
	time.Sleep(50 * time.Millisecond) // el segundo se une a la generación en curso

	cancel()
	require.ErrorIs(t, <-firstErr, context.Canceled, "el solicitante cancelado deja de esperar")

	close(runner.release)
	res := <-second
	require.NoError(t, res.err, "un ctx vivo no hereda la cancelación de otro")
	require.NotNil(t, res.report)
	assert.True(t, rowFor(res.report, f.flour).Closing.Equal(dec("480")))
	assert.Equal(t, 1, f.store.reportCreates)
}

func TestGenerateDailyReport_OmiteInsumosCreadosDespuesDelDia(t *testing.T) {
	f := newReportFixture(t)
	late := f.store.addItem(entity.InventoryItem{
		BranchID: testBranch, Name: "Canela", Unit: "g", AlertThreshold: dec("5"), CreatedAt: at(11, 9),
	})
	sameDay := f.store.addItem(entity.InventoryItem{
		BranchID: testBranch, Name: "Cacao", Unit: "g", Quantity: dec("20"), AlertThreshold: dec("5"), CreatedAt: at(10, 6),
	})

	report, _, err := f.uc.GenerateDailyReport(context.Background(), testBranch, at(10, 0), testUser)
	require.NoError(t, err)

	assert.Equal(t, 4, report.TotalItems)
	assert.Zero(t, rowFor(report, late).ItemID, "no existía ese día")
	assert.Equal(t, sameDay, rowFor(report, sameDay).ItemID)
	assert.Equal(t, 0, report.OutOfStockCount)
}

func TestGenerateDailyReport_FechaFuturaRechazada(t *testing.T) {
	f := newReportFixture(t)
	_, _, err := f.uc.GenerateDailyReport(context.Background(), testBranch, at(13, 0), testUser)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.ParseReportDate("10/03/2026")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExportReportCSV_ColumnasEnOrden(t *testing.T) {
	f := newReportFixture(t)
	report, _, err := f.uc.GenerateDailyReport(context.Background(), testBranch, at(10, 0), testUser)
	require.NoError(t, err)

	raw, err := f.uc.ExportReportCSV(context.Background(), report.ID)
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(string(raw))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, CSVHeader, records[0])

	var flour []string
	for _, rec := range records[1:] {
		if rec[0] == "Harina" {
			flour = rec
		}
	}
	require.NotNil(t, flour)
	assert.Equal(t, []string{"Harina", "secos", "500", "200", "200", "10", "-10", "480", "g", "2.00", "960.00", "normal"}, flour)

	_, err = f.uc.ExportReportCSV(context.Background(), 9999)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
