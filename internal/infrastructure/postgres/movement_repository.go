package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/medtrack/inventory-api/internal/domain"
	"github.com/medtrack/inventory-api/internal/domain/entity"
	"github.com/medtrack/inventory-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del ledger append-only sobre PostgreSQL (usable con pool o tx).
// Las entradas nunca se modifican ni eliminan; la única excepción es la
// retro-referencia undone_by que fija MarkUndone.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, group_id, kind, product_id, location_id, counterpart_location_id,
	delta, notes, reverses_id, undone_by, actor, created_at`

// Create inserta una entrada en el ledger.
func (r *MovementRepo) Create(m *entity.MovementEntry) error {
	query := `
		INSERT INTO movement_entries (id, group_id, kind, product_id, location_id,
			counterpart_location_id, delta, notes, reverses_id, undone_by, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.GroupID, m.Kind, m.ProductID, m.LocationID, m.CounterpartLocationID,
		m.Delta, m.Notes, m.ReversesID, m.UndoneBy, m.Actor, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene una entrada por ID.
func (r *MovementRepo) GetByID(id string) (*entity.MovementEntry, error) {
	query := `SELECT ` + movementColumns + ` FROM movement_entries WHERE id = $1`
	var m entity.MovementEntry
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.GroupID, &m.Kind, &m.ProductID, &m.LocationID, &m.CounterpartLocationID,
		&m.Delta, &m.Notes, &m.ReversesID, &m.UndoneBy, &m.Actor, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return &m, nil
}

// ListByGroup devuelve todas las entradas de una acción lógica en orden de creación.
func (r *MovementRepo) ListByGroup(groupID string) ([]*entity.MovementEntry, error) {
	query := `SELECT ` + movementColumns + ` FROM movement_entries WHERE group_id = $1 ORDER BY created_at, id`
	return r.queryMovements(query, groupID)
}

// MarkUndone fija la retro-referencia de reversión. El guard undone_by IS NULL
// hace la operación idempotente frente a carreras: el segundo undo concurrente
// no afecta filas y recibe ErrAlreadyUndone.
func (r *MovementRepo) MarkUndone(id, reversalID string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE movement_entries SET undone_by = $2 WHERE id = $1 AND undone_by IS NULL`,
		id, reversalID,
	)
	if err != nil {
		return fmt.Errorf("mark undone: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrAlreadyUndone
	}
	return nil
}

// List devuelve el historial filtrado, más reciente primero, con paginación.
func (r *MovementRepo) List(filter repository.MovementFilter, limit, offset int) ([]*entity.MovementEntry, error) {
	query := `SELECT ` + movementColumns + ` FROM movement_entries WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.LocationID != "" {
		query += ` AND location_id = ` + arg(filter.LocationID)
	}
	if filter.ProductID != "" {
		query += ` AND product_id = ` + arg(filter.ProductID)
	}
	if filter.Kind != "" {
		query += ` AND kind = ` + arg(filter.Kind)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ` + arg(limit) + ` OFFSET ` + arg(offset)
	return r.queryMovements(query, args...)
}

// ListRecent devuelve las últimas entradas del ledger (dashboard).
func (r *MovementRepo) ListRecent(limit int) ([]*entity.MovementEntry, error) {
	query := `SELECT ` + movementColumns + ` FROM movement_entries ORDER BY created_at DESC, id DESC LIMIT $1`
	return r.queryMovements(query, limit)
}

func (r *MovementRepo) queryMovements(query string, args ...any) ([]*entity.MovementEntry, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementEntry
	for rows.Next() {
		var m entity.MovementEntry
		if err := rows.Scan(
			&m.ID, &m.GroupID, &m.Kind, &m.ProductID, &m.LocationID, &m.CounterpartLocationID,
			&m.Delta, &m.Notes, &m.ReversesID, &m.UndoneBy, &m.Actor, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
