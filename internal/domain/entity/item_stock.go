package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemStock representa el stock actual de un producto en una ubicación.
// Exactamente una fila por par (producto, ubicación); Quantity nunca es negativa y las
// filas en cero persisten para historial y visibilidad de vencimientos.
// Proyección materializada: la fuente de verdad es la suma de deltas en MovementEntry.
type ItemStock struct {
	ProductID   string
	LocationID  string
	Quantity    decimal.Decimal
	ExpiryDate  *time.Time // opcional
	BatchNumber string     // lote, opcional
	UpdatedAt   time.Time
}
