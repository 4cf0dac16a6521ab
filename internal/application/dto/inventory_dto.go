package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// add/usage/wastage: product_id, location_id, quantity; transfer: from/to.
type RegisterMovementRequest struct {
	Type           string           `json:"type"`
	ProductID      string           `json:"product_id"`
	LocationID     string           `json:"location_id,omitempty"`
	FromLocationID string           `json:"from_location_id,omitempty"`
	ToLocationID   string           `json:"to_location_id,omitempty"`
	Quantity       decimal.Decimal  `json:"quantity"`
	ExpiryDate     *string          `json:"expiry_date,omitempty"` // YYYY-MM-DD
	BatchNumber    string           `json:"batch_number,omitempty"`
	MinStock       *decimal.Decimal `json:"min_stock,omitempty"`
	Notes          string           `json:"notes,omitempty"`
}

// StockResponse snapshot de una fila de stock.
type StockResponse struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name,omitempty"`
	ProductType  string          `json:"product_type,omitempty"`
	ProductSize  string          `json:"product_size,omitempty"`
	LocationID   string          `json:"location_id"`
	LocationName string          `json:"location_name,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	ExpiryDate   *string         `json:"expiry_date,omitempty"`
	ExpiryStatus string          `json:"expiry_status,omitempty"` // good | expiring | expired
	BatchNumber  string          `json:"batch_number,omitempty"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// MovementResponse entrada del ledger para el historial.
type MovementResponse struct {
	ID                    string          `json:"id"`
	GroupID               string          `json:"group_id"`
	Kind                  string          `json:"kind"`
	ProductID             string          `json:"product_id"`
	LocationID            string          `json:"location_id"`
	CounterpartLocationID *string         `json:"counterpart_location_id,omitempty"`
	Delta                 decimal.Decimal `json:"delta"`
	Notes                 string          `json:"notes,omitempty"`
	ReversesID            *string         `json:"reverses_id,omitempty"`
	UndoneBy              *string         `json:"undone_by,omitempty"`
	Actor                 string          `json:"actor,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
}

// MovementResultResponse respuesta de una mutación: entradas comprometidas
// más el snapshot de stock resultante por fila afectada.
type MovementResultResponse struct {
	GroupID   string             `json:"group_id"`
	Movements []MovementResponse `json:"movements"`
	Stocks    []StockResponse    `json:"stocks"`
}

// HistoryResponse historial paginado.
type HistoryResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// AuditLineRequest línea de conteo: expected es la cantidad vista al iniciar el conteo.
type AuditLineRequest struct {
	ProductID string          `json:"product_id"`
	Expected  decimal.Decimal `json:"expected"`
	Counted   decimal.Decimal `json:"counted"`
}

// RecordAuditRequest body para POST /api/inventory/audits.
type RecordAuditRequest struct {
	LocationID string             `json:"location_id"`
	Lines      []AuditLineRequest `json:"lines"`
}

// AuditLineResponse línea reconciliada con su delta derivado.
type AuditLineResponse struct {
	ProductID string          `json:"product_id"`
	Counted   decimal.Decimal `json:"counted"`
	Delta     decimal.Decimal `json:"delta"`
}

// AuditResponse auditoría persistida más los ajustes derivados.
type AuditResponse struct {
	ID          string              `json:"id"`
	LocationID  string              `json:"location_id"`
	GroupID     string              `json:"group_id"`
	Actor       string              `json:"actor,omitempty"`
	Lines       []AuditLineResponse `json:"lines"`
	Adjustments []MovementResponse  `json:"adjustments"`
	CreatedAt   time.Time           `json:"created_at"`
}

// ImportRowError error de una fila del CSV (la importación sigue con las demás).
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResultResponse resultado de la importación CSV.
type ImportResultResponse struct {
	GroupID  string           `json:"group_id"`
	Imported int              `json:"imported"`
	Errors   []ImportRowError `json:"errors,omitempty"`
}

// ExpiryReportResponse reporte de vencimientos.
type ExpiryReportResponse struct {
	Expired  []StockResponse `json:"expired"`
	Expiring []StockResponse `json:"expiring"`
}
