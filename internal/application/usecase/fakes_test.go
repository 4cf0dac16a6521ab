package usecase_test

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/medtrack/inventory-api/internal/application/dto"
	"github.com/medtrack/inventory-api/internal/domain"
	"github.com/medtrack/inventory-api/internal/domain/entity"
	"github.com/medtrack/inventory-api/internal/domain/repository"
)

// Fakes en memoria para los casos de uso. Las búsquedas por nombre no
// distinguen mayúsculas, igual que los adaptadores de PostgreSQL.

type memProductRepo struct {
	products map[string]*entity.Product
	searches int // llamadas a Search, para verificar la caché
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[string]*entity.Product)}
}

func (f *memProductRepo) Create(p *entity.Product) error { f.products[p.ID] = p; return nil }
func (f *memProductRepo) GetByID(id string) (*entity.Product, error) {
	return f.products[id], nil
}
func (f *memProductRepo) GetByName(name string) (*entity.Product, error) {
	for _, p := range f.products {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return nil, nil
}
func (f *memProductRepo) Update(p *entity.Product) error {
	if _, ok := f.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	f.products[p.ID] = p
	return nil
}
func (f *memProductRepo) Delete(id string) error {
	if _, ok := f.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.products, id)
	return nil
}
func (f *memProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}
func (f *memProductRepo) Search(query string, limit int) ([]*entity.Product, error) {
	f.searches++
	var out []*entity.Product
	for _, p := range f.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			out = append(out, p)
		}
	}
	return out, nil
}

type memLocationRepo struct {
	locations map[string]*entity.Location
}

func newMemLocationRepo() *memLocationRepo {
	return &memLocationRepo{locations: make(map[string]*entity.Location)}
}

func (f *memLocationRepo) Create(l *entity.Location) error { f.locations[l.ID] = l; return nil }
func (f *memLocationRepo) GetByID(id string) (*entity.Location, error) {
	return f.locations[id], nil
}
func (f *memLocationRepo) GetByName(name string) (*entity.Location, error) {
	for _, l := range f.locations {
		if strings.EqualFold(l.Name, name) {
			return l, nil
		}
	}
	return nil, nil
}
func (f *memLocationRepo) Update(l *entity.Location) error {
	if _, ok := f.locations[l.ID]; !ok {
		return domain.ErrNotFound
	}
	f.locations[l.ID] = l
	return nil
}
func (f *memLocationRepo) Delete(id string) error {
	if _, ok := f.locations[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.locations, id)
	return nil
}
func (f *memLocationRepo) List() ([]*entity.Location, error) {
	var out []*entity.Location
	for _, l := range f.locations {
		out = append(out, l)
	}
	return out, nil
}

type stockKey struct{ productID, locationID string }

type memStockRepo struct {
	rows map[stockKey]*entity.ItemStock
}

func newMemStockRepo() *memStockRepo {
	return &memStockRepo{rows: make(map[stockKey]*entity.ItemStock)}
}

func (f *memStockRepo) Get(productID, locationID string) (*entity.ItemStock, error) {
	if row, ok := f.rows[stockKey{productID, locationID}]; ok {
		copy := *row
		return &copy, nil
	}
	return &entity.ItemStock{ProductID: productID, LocationID: locationID, Quantity: decimal.Zero}, nil
}
func (f *memStockRepo) GetForUpdate(productID, locationID string) (*entity.ItemStock, error) {
	// Como el adaptador real: materializa la fila en cero antes de devolverla.
	key := stockKey{productID, locationID}
	if _, ok := f.rows[key]; !ok {
		f.rows[key] = &entity.ItemStock{ProductID: productID, LocationID: locationID, Quantity: decimal.Zero}
	}
	return f.Get(productID, locationID)
}
func (f *memStockRepo) Upsert(stock *entity.ItemStock) error {
	copy := *stock
	f.rows[stockKey{stock.ProductID, stock.LocationID}] = &copy
	return nil
}
func (f *memStockRepo) List(filter repository.StockFilter, limit, offset int) ([]*repository.StockRow, error) {
	var out []*repository.StockRow
	for _, row := range f.rows {
		if filter.LocationID != "" && row.LocationID != filter.LocationID {
			continue
		}
		if !filter.IncludeZero && !row.Quantity.IsPositive() {
			continue
		}
		out = append(out, &repository.StockRow{Stock: *row})
	}
	return out, nil
}
func (f *memStockRepo) HasStock(locationID string) (bool, error) {
	for _, row := range f.rows {
		if row.LocationID == locationID && row.Quantity.IsPositive() {
			return true, nil
		}
	}
	return false, nil
}
func (f *memStockRepo) ListLowStock(defaultThreshold decimal.Decimal) ([]*repository.StockRow, error) {
	// Umbral inclusivo, como el adaptador real: quantity <= umbral ya es stock bajo.
	var out []*repository.StockRow
	for _, row := range f.rows {
		if row.Quantity.IsPositive() && row.Quantity.LessThanOrEqual(defaultThreshold) {
			out = append(out, &repository.StockRow{Stock: *row})
		}
	}
	return out, nil
}

type memMovementRepo struct {
	entries []*entity.MovementEntry
}

func (f *memMovementRepo) Create(m *entity.MovementEntry) error {
	copy := *m
	f.entries = append(f.entries, &copy)
	return nil
}
func (f *memMovementRepo) GetByID(id string) (*entity.MovementEntry, error) {
	for _, m := range f.entries {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}
func (f *memMovementRepo) ListByGroup(groupID string) ([]*entity.MovementEntry, error) {
	var out []*entity.MovementEntry
	for _, m := range f.entries {
		if m.GroupID == groupID {
			out = append(out, m)
		}
	}
	return out, nil
}
func (f *memMovementRepo) MarkUndone(id, reversalID string) error {
	for _, m := range f.entries {
		if m.ID == id {
			if m.UndoneBy != nil {
				return domain.ErrAlreadyUndone
			}
			m.UndoneBy = &reversalID
			return nil
		}
	}
	return domain.ErrNotFound
}
func (f *memMovementRepo) List(filter repository.MovementFilter, limit, offset int) ([]*entity.MovementEntry, error) {
	return f.entries, nil
}
func (f *memMovementRepo) ListRecent(limit int) ([]*entity.MovementEntry, error) {
	return f.entries, nil
}

type memAuditRepo struct {
	records []*entity.AuditRecord
}

func (f *memAuditRepo) Create(r *entity.AuditRecord) error {
	f.records = append(f.records, r)
	return nil
}
func (f *memAuditRepo) ListByLocation(locationID string, limit, offset int) ([]*entity.AuditRecord, error) {
	var out []*entity.AuditRecord
	for _, r := range f.records {
		if r.LocationID == locationID {
			out = append(out, r)
		}
	}
	return out, nil
}

// memTxRunner ejecuta el callback directamente sobre los repos en memoria.
// Los tests de rollback viven junto al motor del ledger; aquí solo se
// verifica la orquestación de los casos de uso.
type memTxRunner struct {
	stockRepo *memStockRepo
	movRepo   *memMovementRepo
	auditRepo *memAuditRepo
}

func (f *memTxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.MovementRepository,
	auditRepo repository.AuditRepository,
) error) error {
	return fn(f.stockRepo, f.movRepo, f.auditRepo)
}

type memItemTypeRepo struct {
	types []*entity.ItemType
}

func (f *memItemTypeRepo) Create(t *entity.ItemType) error {
	f.types = append(f.types, t)
	return nil
}
func (f *memItemTypeRepo) GetByName(name string) (*entity.ItemType, error) {
	for _, t := range f.types {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return nil, nil
}
func (f *memItemTypeRepo) List() ([]*entity.ItemType, error) {
	return f.types, nil
}

// memSearchCache caché en memoria para verificar el read-through.
type memSearchCache struct {
	entries     map[string][]dto.ProductSearchResult
	invalidated int
}

func newMemSearchCache() *memSearchCache {
	return &memSearchCache{entries: make(map[string][]dto.ProductSearchResult)}
}

func (c *memSearchCache) GetSearch(ctx context.Context, query string) ([]dto.ProductSearchResult, bool, error) {
	hit, ok := c.entries[query]
	return hit, ok, nil
}
func (c *memSearchCache) SetSearch(ctx context.Context, query string, results []dto.ProductSearchResult) error {
	c.entries[query] = results
	return nil
}
func (c *memSearchCache) Invalidate(ctx context.Context) error {
	c.entries = make(map[string][]dto.ProductSearchResult)
	c.invalidated++
	return nil
}
