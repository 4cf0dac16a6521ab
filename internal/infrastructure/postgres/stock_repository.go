package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/medtrack/inventory-api/internal/domain/entity"
	"github.com/medtrack/inventory-api/internal/domain/inventory"
	"github.com/medtrack/inventory-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock actual de un producto en una ubicación.
// Si la fila no existe devuelve una fila en cero (la proyección arranca vacía).
func (r *StockRepo) Get(productID, locationID string) (*entity.ItemStock, error) {
	query := `
		SELECT product_id, location_id, quantity, expiry_date, batch_number, updated_at
		FROM item_stock WHERE product_id = $1 AND location_id = $2`
	return r.getOne(query, productID, locationID)
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
// FOR UPDATE no bloquea filas inexistentes, así que primero materializa la fila
// en cero: dos transacciones que estrenan el mismo par (producto, ubicación) se
// serializan sobre la fila real en vez de leer ambas un cero sin bloquear.
func (r *StockRepo) GetForUpdate(productID, locationID string) (*entity.ItemStock, error) {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO item_stock (product_id, location_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (product_id, location_id) DO NOTHING`,
		productID, locationID,
	)
	if err != nil {
		return nil, fmt.Errorf("materialize stock: %w", err)
	}
	query := `
		SELECT product_id, location_id, quantity, expiry_date, batch_number, updated_at
		FROM item_stock WHERE product_id = $1 AND location_id = $2
		FOR UPDATE`
	return r.getOne(query, productID, locationID)
}

func (r *StockRepo) getOne(query, productID, locationID string) (*entity.ItemStock, error) {
	var s entity.ItemStock
	err := r.q.QueryRow(context.Background(), query, productID, locationID).Scan(
		&s.ProductID, &s.LocationID, &s.Quantity, &s.ExpiryDate, &s.BatchNumber, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.ItemStock{ProductID: productID, LocationID: locationID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la fila de stock (por producto y ubicación).
// Las filas en cero se conservan, nunca se borran.
func (r *StockRepo) Upsert(stock *entity.ItemStock) error {
	query := `
		INSERT INTO item_stock (product_id, location_id, quantity, expiry_date, batch_number, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, expiry_date = EXCLUDED.expiry_date,
			batch_number = EXCLUDED.batch_number, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		stock.ProductID, stock.LocationID, stock.Quantity, stock.ExpiryDate, stock.BatchNumber,
	)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

const stockRowColumns = `
	s.product_id, s.location_id, s.quantity, s.expiry_date, s.batch_number, s.updated_at,
	p.name, p.type, p.size, p.min_stock, l.name`

// List lista filas de stock con los nombres de producto y ubicación, aplicando filtros.
func (r *StockRepo) List(filter repository.StockFilter, limit, offset int) ([]*repository.StockRow, error) {
	query := `
		SELECT ` + stockRowColumns + `
		FROM item_stock s
		JOIN products p ON p.id = s.product_id
		JOIN locations l ON l.id = s.location_id
		WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !filter.IncludeZero {
		query += ` AND s.quantity > 0`
	}
	if filter.LocationID != "" {
		query += ` AND s.location_id = ` + arg(filter.LocationID)
	}
	if filter.Type != "" {
		query += ` AND lower(p.type) = lower(` + arg(filter.Type) + `)`
	}
	if filter.Search != "" {
		ph := arg(filter.Search)
		query += ` AND (p.name ILIKE '%' || ` + ph + ` || '%' OR p.size ILIKE '%' || ` + ph +
			` || '%' OR s.batch_number ILIKE '%' || ` + ph + ` || '%')`
	}
	switch filter.Expiry {
	case inventory.ExpiryExpired:
		query += ` AND s.expiry_date IS NOT NULL AND s.expiry_date < ` + arg(today())
	case inventory.ExpiryExpiring:
		ph := arg(today())
		// Ventana inclusiva: el día 30 exacto todavía cuenta como por vencer.
		query += ` AND s.expiry_date IS NOT NULL AND s.expiry_date >= ` + ph +
			` AND s.expiry_date <= ` + ph + `::date + ` + arg(inventory.ExpiringWindowDays)
	}
	query += ` ORDER BY lower(p.name), lower(l.name)`
	// limit <= 0 significa sin paginación (reportes completos).
	if limit > 0 {
		query += ` LIMIT ` + arg(limit) + ` OFFSET ` + arg(offset)
	}

	return r.queryRows(query, args...)
}

// HasStock indica si la ubicación tiene alguna fila con cantidad positiva.
func (r *StockRepo) HasStock(locationID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM item_stock WHERE location_id = $1 AND quantity > 0)`,
		locationID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check stock: %w", err)
	}
	return exists, nil
}

// ListLowStock filas con cantidad positiva en o por debajo del umbral del producto
// (o del umbral por defecto si el producto no define uno). El umbral es inclusivo:
// un stock exactamente en su mínimo ya es stock bajo.
func (r *StockRepo) ListLowStock(defaultThreshold decimal.Decimal) ([]*repository.StockRow, error) {
	query := `
		SELECT ` + stockRowColumns + `
		FROM item_stock s
		JOIN products p ON p.id = s.product_id
		JOIN locations l ON l.id = s.location_id
		WHERE s.quantity > 0 AND s.quantity <= COALESCE(p.min_stock, $1)
		ORDER BY lower(p.name), lower(l.name)`
	return r.queryRows(query, defaultThreshold)
}

func (r *StockRepo) queryRows(query string, args ...any) ([]*repository.StockRow, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*repository.StockRow
	for rows.Next() {
		var row repository.StockRow
		if err := rows.Scan(
			&row.Stock.ProductID, &row.Stock.LocationID, &row.Stock.Quantity,
			&row.Stock.ExpiryDate, &row.Stock.BatchNumber, &row.Stock.UpdatedAt,
			&row.ProductName, &row.ProductType, &row.ProductSize, &row.MinStock, &row.LocationName,
		); err != nil {
			return nil, fmt.Errorf("scan stock row: %w", err)
		}
		list = append(list, &row)
	}
	return list, rows.Err()
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
