package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del ledger.
const (
	MovementKindAdd         = "add"              // entrada de stock
	MovementKindUsage       = "usage"            // consumo
	MovementKindTransferOut = "transfer_out"     // salida por traslado
	MovementKindTransferIn  = "transfer_in"      // entrada por traslado
	MovementKindWastage     = "wastage"          // merma (vencido, dañado)
	MovementKindAuditAdjust = "audit_adjustment" // ajuste por auditoría física
)

// MovementKindTransfer es el tipo de intent de traslado; el ledger lo materializa
// como un par transfer_out/transfer_in con el mismo GroupID.
const MovementKindTransfer = "transfer"

// MovementEntry es una entrada del ledger append-only. Inmutable una vez escrita,
// salvo la retro-referencia UndoneBy que se fija al revertirla.
// GroupID agrupa las entradas de una misma acción lógica (par de traslado,
// lote de auditoría, importación CSV) para poder revertirlas en conjunto.
type MovementEntry struct {
	ID                    string
	GroupID               string
	Kind                  string
	ProductID             string
	LocationID            string
	CounterpartLocationID *string // otra ubicación del traslado
	Delta                 decimal.Decimal // con signo: negativo = salida
	Notes                 string
	ReversesID            *string // entrada que esta revierte (cadena de undo)
	UndoneBy              *string // reversión que anuló esta entrada
	Actor                 string
	CreatedAt             time.Time
}

// IsReversal indica si la entrada es una reversión de otra.
func (m *MovementEntry) IsReversal() bool {
	return m.ReversesID != nil
}

// IsUndone indica si la entrada ya fue revertida. Estado terminal.
func (m *MovementEntry) IsUndone() bool {
	return m.UndoneBy != nil
}
