package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/inventory-api/internal/domain"
	"github.com/medtrack/inventory-api/internal/domain/entity"
	"github.com/medtrack/inventory-api/internal/domain/repository"
)

// Undoer revierte un movimiento previamente registrado reproduciendo su inverso.
// La reversión cubre la acción lógica completa: las dos entradas de un traslado,
// todos los ajustes de un lote de auditoría o todas las altas de una importación,
// de forma atómica o ninguna. Estado por entrada: active → undone (terminal).
type Undoer struct {
	txRunner TxRunner
	movRepo  repository.MovementRepository
}

// NewUndoer construye el motor de reversión.
func NewUndoer(txRunner TxRunner, movRepo repository.MovementRepository) *Undoer {
	return &Undoer{txRunner: txRunner, movRepo: movRepo}
}

// Undo revierte la entrada indicada y todas sus hermanas de grupo.
//
// Rechaza con domain.ErrAlreadyUndone si la entrada (o una hermana de su traslado)
// ya fue revertida: un segundo intento falla limpio en vez de duplicar la reversa.
// Rechaza con domain.ErrNotUndoable si la entrada es a su vez una reversión, o si
// es un ajuste de auditoría cuyo lote quedó parcialmente revertido por otra vía.
// Cada entrada inversa pasa por el ledger con su chequeo de no-negatividad: si el
// stock trasladado ya se consumió en destino, la reversión del traslado falla con
// domain.ErrInsufficientStock y no se mueve nada (jamás se recorta a cero).
func (u *Undoer) Undo(ctx context.Context, movementID, actor string) (*MovementResult, error) {
	if movementID == "" {
		return nil, domain.ErrInvalidInput
	}
	target, err := u.movRepo.GetByID(movementID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, domain.ErrNotFound
	}
	if target.IsReversal() {
		return nil, domain.ErrNotUndoable
	}
	if target.IsUndone() {
		return nil, domain.ErrAlreadyUndone
	}

	now := time.Now()
	undoGroup := uuid.New().String()
	result := &MovementResult{GroupID: undoGroup}

	err = u.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
		_ repository.AuditRepository,
	) error {
		// Resolver hermanas dentro de la tx para ver el estado comprometido más reciente.
		siblings, err := movRepo.ListByGroup(target.GroupID)
		if err != nil {
			return err
		}
		originals := make([]*entity.MovementEntry, 0, len(siblings))
		for _, s := range siblings {
			if s.IsReversal() {
				continue
			}
			if s.IsUndone() {
				if target.Kind == entity.MovementKindAuditAdjust && s.ID != target.ID {
					return domain.ErrNotUndoable
				}
				return domain.ErrAlreadyUndone
			}
			originals = append(originals, s)
		}
		if len(originals) == 0 {
			return domain.ErrAlreadyUndone
		}

		for _, orig := range originals {
			origID := orig.ID
			reversal := &entity.MovementEntry{
				ID:                    uuid.New().String(),
				GroupID:               undoGroup,
				Kind:                  orig.Kind,
				ProductID:             orig.ProductID,
				LocationID:            orig.LocationID,
				CounterpartLocationID: orig.CounterpartLocationID,
				Delta:                 orig.Delta.Neg(),
				Notes:                 "reversión de movimiento",
				ReversesID:            &origID,
				Actor:                 actor,
				CreatedAt:             now,
			}
			stock, err := applyEntry(stockRepo, movRepo, reversal, nil, now)
			if err != nil {
				return err
			}
			// Retro-referencia en la entrada original; falla si otro undo ganó la carrera.
			if err := movRepo.MarkUndone(orig.ID, reversal.ID); err != nil {
				return err
			}
			result.Entries = append(result.Entries, reversal)
			result.Stocks = append(result.Stocks, stock)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
