package inventory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-insumos/internal/domain"
	"github.com/jhoicas/Inventario-insumos/internal/domain/entity"
	"github.com/jhoicas/Inventario-insumos/internal/domain/repository"
)

// memStore base de datos en memoria para las pruebas de casos de uso.
// memTxRunner toma una foto antes de fn y la restaura si fn falla.
type memStore struct {
	mu           sync.Mutex
	nextID       int64
	items        map[int64]entity.InventoryItem
	txs          []entity.InventoryTransaction
	rules        map[int64]entity.ConsumptionRule
	recipes      map[int64]entity.LegacyRecipe // por producto
	orders       map[int64]entity.Order
	consumptions map[int64]entity.OrderConsumption // por orden
	reports      map[int64]entity.DailyStockReport
	adjustments  map[int64]entity.InventoryAdjustment
	counts       map[int64]entity.StockCount

	failAppendAfter int // > 0: el Append número N+1 falla
	appendCalls     int
	reportCreates   int
}

var errInjected = errors.New("fallo inyectado")

func newMemStore() *memStore {
	return &memStore{
		items:        map[int64]entity.InventoryItem{},
		rules:        map[int64]entity.ConsumptionRule{},
		recipes:      map[int64]entity.LegacyRecipe{},
		orders:       map[int64]entity.Order{},
		consumptions: map[int64]entity.OrderConsumption{},
		reports:      map[int64]entity.DailyStockReport{},
		adjustments:  map[int64]entity.InventoryAdjustment{},
		counts:       map[int64]entity.StockCount{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) repos() Repositories {
	return Repositories{
		Items:        memItems{s},
		Transactions: memTransactions{s},
		Rules:        memRules{s},
		Recipes:      memRecipes{s},
		Orders:       memOrders{s},
		Consumptions: memConsumptions{s},
		Reports:      memReports{s},
		Adjustments:  memAdjustments{s},
		Counts:       memCounts{s},
	}
}

type memSnapshot struct {
	nextID       int64
	items        map[int64]entity.InventoryItem
	txs          []entity.InventoryTransaction
	rules        map[int64]entity.ConsumptionRule
	orders       map[int64]entity.Order
	consumptions map[int64]entity.OrderConsumption
	reports      map[int64]entity.DailyStockReport
	adjustments  map[int64]entity.InventoryAdjustment
	counts       map[int64]entity.StockCount
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memSnapshot{
		nextID:       s.nextID,
		items:        copyMap(s.items),
		txs:          append([]entity.InventoryTransaction(nil), s.txs...),
		rules:        copyMap(s.rules),
		orders:       copyMap(s.orders),
		consumptions: copyMap(s.consumptions),
		reports:      copyMap(s.reports),
		adjustments:  copyMap(s.adjustments),
		counts:       copyMap(s.counts),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = snap.nextID
	s.items = snap.items
	s.txs = snap.txs
	s.rules = snap.rules
	s.orders = snap.orders
	s.consumptions = snap.consumptions
	s.reports = snap.reports
	s.adjustments = snap.adjustments
	s.counts = snap.counts
}

type memTxRunner struct {
	store *memStore
	mu    sync.Mutex // serializa transacciones como lo haría el bloqueo de filas
}

func (r *memTxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := r.store.snapshot()
	if err := fn(ctx, r.store.repos()); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

func (r *memTxRunner) RunRepeatableRead(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	return r.Run(ctx, fn)
}

// ── Helpers de fixture ──────────────────────────────────────────────────────

func (s *memStore) addItem(it entity.InventoryItem) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it.ID == 0 {
		it.ID = s.id()
	}
	if it.Status == "" {
		it.Status = entity.StockStatusFor("", it.Quantity, it.AlertThreshold)
	}
	s.items[it.ID] = it
	return it.ID
}

func (s *memStore) item(id int64) entity.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[id]
}

func (s *memStore) addRule(r entity.ConsumptionRule) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.id()
	s.rules[r.ID] = r
	return r.ID
}

func (s *memStore) addOrder(o entity.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = o
}

func (s *memStore) transactions() []entity.InventoryTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.InventoryTransaction(nil), s.txs...)
}

// ── Repositorios ────────────────────────────────────────────────────────────

type memItems struct{ s *memStore }

func (r memItems) Create(_ context.Context, it *entity.InventoryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it.ID = r.s.id()
	r.s.items[it.ID] = *it
	return nil
}

func (r memItems) GetByID(_ context.Context, id int64) (*entity.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (r memItems) GetForUpdate(ctx context.Context, id int64) (*entity.InventoryItem, error) {
	return r.GetByID(ctx, id)
}

func (r memItems) ListByBranch(_ context.Context, branchID int64, f repository.ItemFilter) ([]*entity.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.InventoryItem
	for _, it := range r.s.items {
		it := it
		if it.BranchID != branchID {
			continue
		}
		if f.Status != "" && it.Status != f.Status {
			continue
		}
		if f.Category != "" && it.Category != f.Category {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(it.Name), strings.ToLower(f.Search)) {
			continue
		}
		if f.LowStockOnly && !it.IsLow() {
			continue
		}
		out = append(out, &it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memItems) ApplyDelta(_ context.Context, id int64, delta decimal.Decimal) (*entity.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	it.Quantity = it.Quantity.Add(delta)
	it.Version++
	it.Status = entity.StockStatusFor(it.Status, it.Quantity, it.AlertThreshold)
	it.UpdatedAt = time.Now()
	r.s.items[id] = it
	return &it, nil
}

func (r memItems) UpdateAverageCost(_ context.Context, id int64, cost decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it := r.s.items[id]
	it.AverageCost = cost
	r.s.items[id] = it
	return nil
}

type memTransactions struct{ s *memStore }

func (r memTransactions) Append(_ context.Context, tx *entity.InventoryTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.appendCalls++
	if r.s.failAppendAfter > 0 && r.s.appendCalls > r.s.failAppendAfter {
		return errInjected
	}
	tx.ID = r.s.id()
	r.s.txs = append(r.s.txs, *tx)
	return nil
}

func (r memTransactions) List(_ context.Context, f repository.TransactionFilter) ([]*entity.InventoryTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.InventoryTransaction
	for _, tx := range r.s.txs {
		tx := tx
		if f.ItemID != nil && tx.ItemID != *f.ItemID {
			continue
		}
		if f.BranchID != nil && tx.BranchID != *f.BranchID {
			continue
		}
		if f.From != nil && tx.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !tx.CreatedAt.Before(*f.To) {
			continue
		}
		if len(f.Types) > 0 && !containsString(f.Types, tx.Type) {
			continue
		}
		if f.ReferenceType != "" && tx.ReferenceType != f.ReferenceType {
			continue
		}
		if f.ReferenceID != nil && tx.ReferenceID != *f.ReferenceID {
			continue
		}
		out = append(out, &tx)
	}
	return out, nil
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

type memRules struct{ s *memStore }

func (r memRules) Create(_ context.Context, rule *entity.ConsumptionRule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rule.ID = r.s.id()
	r.s.rules[rule.ID] = *rule
	return nil
}

func (r memRules) GetByID(_ context.Context, id int64) (*entity.ConsumptionRule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rule, ok := r.s.rules[id]
	if !ok {
		return nil, nil
	}
	return &rule, nil
}

func (r memRules) List(_ context.Context, f repository.RuleFilter) ([]*entity.ConsumptionRule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ConsumptionRule
	for _, rule := range r.s.rules {
		rule := rule
		if f.ProductID != nil && rule.ProductID != *f.ProductID {
			continue
		}
		if f.MaterialID != nil && rule.MaterialID != *f.MaterialID {
			continue
		}
		if f.ActiveOnly && !rule.IsActive {
			continue
		}
		out = append(out, &rule)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memRules) ListActiveByProduct(ctx context.Context, productID int64) ([]*entity.ConsumptionRule, error) {
	return r.List(ctx, repository.RuleFilter{ProductID: &productID, ActiveOnly: true})
}

func (r memRules) SetActive(_ context.Context, id int64, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rule, ok := r.s.rules[id]
	if !ok {
		return domain.ErrNotFound
	}
	rule.IsActive = active
	r.s.rules[id] = rule
	return nil
}

type memRecipes struct{ s *memStore }

func (r memRecipes) GetByProduct(_ context.Context, productID int64) (*entity.LegacyRecipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.recipes[productID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

type memOrders struct{ s *memStore }

func (r memOrders) GetByID(_ context.Context, id int64) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r memOrders) MarkInventoryProcessed(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.InventoryProcessed = true
	r.s.orders[id] = o
	return nil
}

type memConsumptions struct{ s *memStore }

func (r memConsumptions) Create(_ context.Context, c *entity.OrderConsumption) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.consumptions[c.OrderID]; ok {
		return domain.ErrAlreadyProcessed
	}
	c.ID = r.s.id()
	r.s.consumptions[c.OrderID] = *c
	return nil
}

func (r memConsumptions) GetByOrder(_ context.Context, orderID int64) (*entity.OrderConsumption, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.consumptions[orderID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

type memReports struct{ s *memStore }

func (r memReports) Create(_ context.Context, rep *entity.DailyStockReport) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.reports {
		if existing.BranchID == rep.BranchID && existing.ReportDate.Equal(rep.ReportDate) {
			return domain.ErrDuplicate
		}
	}
	r.s.reportCreates++
	rep.ID = r.s.id()
	items := make([]entity.DailyStockReportItem, len(rep.Items))
	for i, it := range rep.Items {
		it.ReportID = rep.ID
		it.ID = r.s.id()
		items[i] = it
	}
	rep.Items = items
	r.s.reports[rep.ID] = *rep
	return nil
}

func (r memReports) GetByID(_ context.Context, id int64) (*entity.DailyStockReport, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rep, ok := r.s.reports[id]
	if !ok {
		return nil, nil
	}
	return &rep, nil
}

func (r memReports) GetByBranchAndDate(_ context.Context, branchID int64, date time.Time) (*entity.DailyStockReport, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rep := range r.s.reports {
		if rep.BranchID == branchID && rep.ReportDate.Equal(date) {
			rep := rep
			return &rep, nil
		}
	}
	return nil, nil
}

type memAdjustments struct{ s *memStore }

func (r memAdjustments) Create(_ context.Context, adj *entity.InventoryAdjustment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	adj.ID = r.s.id()
	for i := range adj.Items {
		adj.Items[i].ID = r.s.id()
		adj.Items[i].AdjustmentID = adj.ID
	}
	stored := *adj
	stored.Items = append([]entity.InventoryAdjustmentItem(nil), adj.Items...)
	r.s.adjustments[adj.ID] = stored
	return nil
}

func (r memAdjustments) GetByID(_ context.Context, id int64) (*entity.InventoryAdjustment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	adj, ok := r.s.adjustments[id]
	if !ok {
		return nil, nil
	}
	adj.Items = append([]entity.InventoryAdjustmentItem(nil), adj.Items...)
	return &adj, nil
}

func (r memAdjustments) GetForUpdate(ctx context.Context, id int64) (*entity.InventoryAdjustment, error) {
	return r.GetByID(ctx, id)
}

func (r memAdjustments) UpdateStatus(_ context.Context, adj *entity.InventoryAdjustment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.adjustments[adj.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Status = adj.Status
	stored.ApprovedBy = adj.ApprovedBy
	stored.ReviewedAt = adj.ReviewedAt
	stored.BatchID = adj.BatchID
	stored.Notes = adj.Notes
	r.s.adjustments[adj.ID] = stored
	return nil
}

type memCounts struct{ s *memStore }

func (r memCounts) Create(_ context.Context, c *entity.StockCount) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = r.s.id()
	for i := range c.Items {
		c.Items[i].ID = r.s.id()
		c.Items[i].StockCountID = c.ID
	}
	stored := *c
	stored.Items = append([]entity.StockCountItem(nil), c.Items...)
	r.s.counts[c.ID] = stored
	return nil
}

func (r memCounts) GetByID(_ context.Context, id int64) (*entity.StockCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.counts[id]
	if !ok {
		return nil, nil
	}
	c.Items = append([]entity.StockCountItem(nil), c.Items...)
	return &c, nil
}

func (r memCounts) GetForUpdate(ctx context.Context, id int64) (*entity.StockCount, error) {
	return r.GetByID(ctx, id)
}

func (r memCounts) Update(_ context.Context, c *entity.StockCount) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.counts[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	items := stored.Items
	stored = *c
	stored.Items = items
	r.s.counts[c.ID] = stored
	return nil
}

func (r memCounts) UpdateItem(_ context.Context, line *entity.StockCountItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.counts[line.StockCountID]
	if !ok {
		return domain.ErrNotFound
	}
	items := append([]entity.StockCountItem(nil), stored.Items...)
	for i := range items {
		if items[i].ID == line.ID {
			items[i] = *line
			stored.Items = items
			r.s.counts[line.StockCountID] = stored
			return nil
		}
	}
	return domain.ErrNotFound
}

// recordingNotifier guarda las alertas recibidas.
type recordingNotifier struct {
	mu     sync.Mutex
	events []entity.LowStockEvent
	err    error
}

func (n *recordingNotifier) NotifyLowStock(_ context.Context, evt entity.LowStockEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, evt)
	return n.err
}
