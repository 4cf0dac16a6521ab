package repository

import "github.com/medtrack/inventory-api/internal/domain/entity"

// MovementFilter filtros del historial de movimientos.
type MovementFilter struct {
	LocationID string
	ProductID  string
	Kind       string
}

// MovementRepository define el puerto de persistencia del ledger append-only.
type MovementRepository interface {
	Create(movement *entity.MovementEntry) error
	GetByID(id string) (*entity.MovementEntry, error)
	// ListByGroup devuelve todas las entradas de una acción lógica (par de traslado,
	// lote de auditoría, importación) en orden de creación.
	ListByGroup(groupID string) ([]*entity.MovementEntry, error)
	// MarkUndone fija la retro-referencia de reversión; devuelve domain.ErrAlreadyUndone
	// si la entrada ya había sido revertida (protege contra doble undo concurrente).
	MarkUndone(id, reversalID string) error
	List(filter MovementFilter, limit, offset int) ([]*entity.MovementEntry, error)
	ListRecent(limit int) ([]*entity.MovementEntry, error)
}
