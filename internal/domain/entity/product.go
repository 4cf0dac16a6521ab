package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo maestro (consumibles, viales, jeringas, etc.).
// El nombre es único sin distinguir mayúsculas; la identidad es inmutable, los campos
// descriptivos son editables. El stock se maneja por ubicación en ItemStock.
type Product struct {
	ID        string
	Name      string
	Type      string // categoría: Consumables, Pharmacy Vials, IV Vials, ...
	Brand     string
	Size      string // presentación: 22G, 5ml, ...
	MinStock  *decimal.Decimal // umbral de stock mínimo (opcional)
	CreatedAt time.Time
	UpdatedAt time.Time
}
