package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditRecord representa un reconteo físico de una ubicación reconciliado contra el ledger.
// Las líneas cubren solo los productos contados; auditorías parciales son válidas.
type AuditRecord struct {
	ID         string
	LocationID string
	GroupID    string // agrupa los ajustes derivados en MovementEntry
	Actor      string
	Lines      []AuditLine
	CreatedAt  time.Time
}

// AuditLine es el resultado por producto de una auditoría: cantidad contada y
// delta derivado (contada - cantidad en ledger al momento del commit).
type AuditLine struct {
	ProductID string
	Counted   decimal.Decimal
	Delta     decimal.Decimal
}
