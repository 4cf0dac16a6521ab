package repository

import (
	"github.com/shopspring/decimal"

	"github.com/medtrack/inventory-api/internal/domain/entity"
)

// StockFilter filtros del listado de stock para presentación.
type StockFilter struct {
	LocationID  string
	Search      string // subcadena sobre nombre, presentación o lote
	Type        string
	Expiry      string // "expired", "expiring" o vacío
	IncludeZero bool   // por defecto solo filas con cantidad positiva
}

// StockRow fila de stock enriquecida con los nombres de sus referencias
// (join en el adaptador) para los listados de presentación.
type StockRow struct {
	Stock        entity.ItemStock
	ProductName  string
	ProductType  string
	ProductSize  string
	MinStock     *decimal.Decimal
	LocationName string
}

// StockRepository define el puerto para consultar/actualizar stock por producto+ubicación.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	Get(productID, locationID string) (*entity.ItemStock, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE). Si la fila no
	// existe la materializa en cero antes de bloquear, para que dos transacciones
	// que estrenan el mismo par se serialicen en vez de leer un cero sin bloqueo.
	GetForUpdate(productID, locationID string) (*entity.ItemStock, error)
	Upsert(stock *entity.ItemStock) error
	List(filter StockFilter, limit, offset int) ([]*StockRow, error)
	// HasStock indica si la ubicación tiene alguna fila con cantidad positiva.
	HasStock(locationID string) (bool, error)
	// ListLowStock filas con cantidad positiva en o por debajo de su umbral
	// (o del umbral por defecto si el producto no define uno).
	ListLowStock(defaultThreshold decimal.Decimal) ([]*StockRow, error)
}
