package ledger_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/medtrack/inventory-api/internal/domain"
	"github.com/medtrack/inventory-api/internal/domain/entity"
	"github.com/medtrack/inventory-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para el motor del ledger. El fakeTxRunner emula la atomicidad
// de una transacción real: toma un snapshot del estado antes del callback y lo
// restaura si este devuelve error.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStockRepo struct {
	rows map[string]entity.ItemStock // clave productID|locationID
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{rows: make(map[string]entity.ItemStock)}
}

func stockKey(productID, locationID string) string { return productID + "|" + locationID }

func (f *fakeStockRepo) Get(productID, locationID string) (*entity.ItemStock, error) {
	if row, ok := f.rows[stockKey(productID, locationID)]; ok {
		r := row
		return &r, nil
	}
	return &entity.ItemStock{ProductID: productID, LocationID: locationID, Quantity: decimal.Zero}, nil
}

func (f *fakeStockRepo) GetForUpdate(productID, locationID string) (*entity.ItemStock, error) {
	// Como el adaptador real: materializa la fila en cero antes de devolverla.
	key := stockKey(productID, locationID)
	if _, ok := f.rows[key]; !ok {
		f.rows[key] = entity.ItemStock{ProductID: productID, LocationID: locationID, Quantity: decimal.Zero}
	}
	return f.Get(productID, locationID)
}

func (f *fakeStockRepo) Upsert(stock *entity.ItemStock) error {
	f.rows[stockKey(stock.ProductID, stock.LocationID)] = *stock
	return nil
}

func (f *fakeStockRepo) List(_ repository.StockFilter, _, _ int) ([]*repository.StockRow, error) {
	out := make([]*repository.StockRow, 0, len(f.rows))
	for _, row := range f.rows {
		out = append(out, &repository.StockRow{Stock: row})
	}
	return out, nil
}

func (f *fakeStockRepo) HasStock(locationID string) (bool, error) {
	for _, row := range f.rows {
		if row.LocationID == locationID && row.Quantity.IsPositive() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStockRepo) ListLowStock(_ decimal.Decimal) ([]*repository.StockRow, error) {
	return nil, nil
}

func (f *fakeStockRepo) quantity(productID, locationID string) decimal.Decimal {
	return f.rows[stockKey(productID, locationID)].Quantity
}

type fakeMovementRepo struct {
	entries []entity.MovementEntry
}

func (f *fakeMovementRepo) Create(m *entity.MovementEntry) error {
	f.entries = append(f.entries, *m)
	return nil
}

func (f *fakeMovementRepo) GetByID(id string) (*entity.MovementEntry, error) {
	for i := range f.entries {
		if f.entries[i].ID == id {
			m := f.entries[i]
			return &m, nil
		}
	}
	return nil, nil
}

func (f *fakeMovementRepo) ListByGroup(groupID string) ([]*entity.MovementEntry, error) {
	var out []*entity.MovementEntry
	for i := range f.entries {
		if f.entries[i].GroupID == groupID {
			m := f.entries[i]
			out = append(out, &m)
		}
	}
	return out, nil
}

func (f *fakeMovementRepo) MarkUndone(id, reversalID string) error {
	for i := range f.entries {
		if f.entries[i].ID == id {
			if f.entries[i].UndoneBy != nil {
				return domain.ErrAlreadyUndone
			}
			rev := reversalID
			f.entries[i].UndoneBy = &rev
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeMovementRepo) List(filter repository.MovementFilter, limit, offset int) ([]*entity.MovementEntry, error) {
	var out []*entity.MovementEntry
	for i := range f.entries {
		m := f.entries[i]
		if filter.ProductID != "" && m.ProductID != filter.ProductID {
			continue
		}
		if filter.LocationID != "" && m.LocationID != filter.LocationID {
			continue
		}
		if filter.Kind != "" && m.Kind != filter.Kind {
			continue
		}
		out = append(out, &m)
	}
	return out, nil
}

func (f *fakeMovementRepo) ListRecent(limit int) ([]*entity.MovementEntry, error) {
	return f.List(repository.MovementFilter{}, limit, 0)
}

// sumDeltas suma de deltas del par, para verificar la proyección contra el ledger.
func (f *fakeMovementRepo) sumDeltas(productID, locationID string) decimal.Decimal {
	sum := decimal.Zero
	for _, m := range f.entries {
		if m.ProductID == productID && m.LocationID == locationID {
			sum = sum.Add(m.Delta)
		}
	}
	return sum
}

type fakeAuditRepo struct {
	records []entity.AuditRecord
}

func (f *fakeAuditRepo) Create(record *entity.AuditRecord) error {
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeAuditRepo) ListByLocation(locationID string, _, _ int) ([]*entity.AuditRecord, error) {
	var out []*entity.AuditRecord
	for i := range f.records {
		if f.records[i].LocationID == locationID {
			r := f.records[i]
			out = append(out, &r)
		}
	}
	return out, nil
}

type fakeTxRunner struct {
	stock *fakeStockRepo
	mov   *fakeMovementRepo
	audit *fakeAuditRepo
}

func (f *fakeTxRunner) Run(_ context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.MovementRepository,
	auditRepo repository.AuditRepository,
) error) error {
	// Snapshot para emular rollback.
	stockSnap := make(map[string]entity.ItemStock, len(f.stock.rows))
	for k, v := range f.stock.rows {
		stockSnap[k] = v
	}
	movSnap := make([]entity.MovementEntry, len(f.mov.entries))
	copy(movSnap, f.mov.entries)
	auditSnap := make([]entity.AuditRecord, len(f.audit.records))
	copy(auditSnap, f.audit.records)

	if err := fn(f.stock, f.mov, f.audit); err != nil {
		f.stock.rows = stockSnap
		f.mov.entries = movSnap
		f.audit.records = auditSnap
		return err
	}
	return nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func newFakeProductRepo(ids ...string) *fakeProductRepo {
	f := &fakeProductRepo{products: make(map[string]*entity.Product)}
	for _, id := range ids {
		f.products[id] = &entity.Product{ID: id, Name: "producto " + id, Type: "Consumables"}
	}
	return f
}

func (f *fakeProductRepo) Create(p *entity.Product) error { f.products[p.ID] = p; return nil }
func (f *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return f.products[id], nil
}
func (f *fakeProductRepo) GetByName(name string) (*entity.Product, error) {
	for _, p := range f.products {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, nil
}
func (f *fakeProductRepo) Update(p *entity.Product) error { f.products[p.ID] = p; return nil }
func (f *fakeProductRepo) Delete(id string) error         { delete(f.products, id); return nil }
func (f *fakeProductRepo) List(_, _ int) ([]*entity.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) Search(_ string, _ int) ([]*entity.Product, error) {
	return nil, nil
}

type fakeLocationRepo struct {
	locations map[string]*entity.Location
}

func newFakeLocationRepo(ids ...string) *fakeLocationRepo {
	f := &fakeLocationRepo{locations: make(map[string]*entity.Location)}
	for _, id := range ids {
		f.locations[id] = &entity.Location{ID: id, Name: "bolsa " + id, Active: true, CreatedAt: time.Now()}
	}
	return f
}

func (f *fakeLocationRepo) Create(l *entity.Location) error { f.locations[l.ID] = l; return nil }
func (f *fakeLocationRepo) GetByID(id string) (*entity.Location, error) {
	return f.locations[id], nil
}
func (f *fakeLocationRepo) GetByName(name string) (*entity.Location, error) {
	for _, l := range f.locations {
		if l.Name == name {
			return l, nil
		}
	}
	return nil, nil
}
func (f *fakeLocationRepo) Update(l *entity.Location) error { f.locations[l.ID] = l; return nil }
func (f *fakeLocationRepo) Delete(id string) error          { delete(f.locations, id); return nil }
func (f *fakeLocationRepo) List() ([]*entity.Location, error) {
	return nil, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fakes con bloqueo por fila, para tests concurrentes. Modelan la semántica del
// adaptador real de PostgreSQL: GetForUpdate materializa la fila en cero y toma
// un lock por fila que la transacción retiene hasta terminar (FOR UPDATE).
// ──────────────────────────────────────────────────────────────────────────────

type rowLockStore struct {
	mu    sync.Mutex
	rows  map[string]entity.ItemStock
	locks map[string]*sync.Mutex
}

func newRowLockStore() *rowLockStore {
	return &rowLockStore{
		rows:  make(map[string]entity.ItemStock),
		locks: make(map[string]*sync.Mutex),
	}
}

// rowLockStockRepo vista transaccional del store: acumula los locks de fila
// adquiridos para que el runner los libere al terminar la transacción.
type rowLockStockRepo struct {
	store *rowLockStore
	held  []*sync.Mutex
}

func (f *rowLockStockRepo) Get(productID, locationID string) (*entity.ItemStock, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if row, ok := f.store.rows[stockKey(productID, locationID)]; ok {
		r := row
		return &r, nil
	}
	return &entity.ItemStock{ProductID: productID, LocationID: locationID, Quantity: decimal.Zero}, nil
}

func (f *rowLockStockRepo) GetForUpdate(productID, locationID string) (*entity.ItemStock, error) {
	key := stockKey(productID, locationID)
	f.store.mu.Lock()
	if _, ok := f.store.rows[key]; !ok {
		f.store.rows[key] = entity.ItemStock{ProductID: productID, LocationID: locationID, Quantity: decimal.Zero}
	}
	lock, ok := f.store.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		f.store.locks[key] = lock
	}
	f.store.mu.Unlock()

	// El lock de fila se toma fuera del mutex del store y queda retenido
	// hasta el fin de la transacción; la relectura ve el último commit.
	lock.Lock()
	f.held = append(f.held, lock)
	f.store.mu.Lock()
	row := f.store.rows[key]
	f.store.mu.Unlock()
	return &row, nil
}

func (f *rowLockStockRepo) Upsert(stock *entity.ItemStock) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.rows[stockKey(stock.ProductID, stock.LocationID)] = *stock
	return nil
}

func (f *rowLockStockRepo) List(_ repository.StockFilter, _, _ int) ([]*repository.StockRow, error) {
	return nil, nil
}

func (f *rowLockStockRepo) HasStock(string) (bool, error) { return false, nil }

func (f *rowLockStockRepo) ListLowStock(decimal.Decimal) ([]*repository.StockRow, error) {
	return nil, nil
}

// syncMovementRepo fakeMovementRepo apto para escrituras concurrentes.
type syncMovementRepo struct {
	mu sync.Mutex
	fakeMovementRepo
}

func (f *syncMovementRepo) Create(m *entity.MovementEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fakeMovementRepo.Create(m)
}

// rowLockTxRunner ejecuta el callback con una vista transaccional del store y
// libera los locks de fila al terminar. No emula rollback: los tests de
// atomicidad usan fakeTxRunner; este runner cubre la serialización entre
// transacciones concurrentes.
type rowLockTxRunner struct {
	store *rowLockStore
	mov   *syncMovementRepo
	audit *fakeAuditRepo
}

func (f *rowLockTxRunner) Run(_ context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.MovementRepository,
	auditRepo repository.AuditRepository,
) error) error {
	repo := &rowLockStockRepo{store: f.store}
	defer func() {
		for _, l := range repo.held {
			l.Unlock()
		}
	}()
	return fn(repo, f.mov, f.audit)
}
