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

var _ repository.ItemTypeRepository = (*ItemTypeRepo)(nil)

// ItemTypeRepo implementación de ItemTypeRepository sobre PostgreSQL.
type ItemTypeRepo struct {
	q Querier
}

// NewItemTypeRepository construye el adaptador del catálogo de categorías.
func NewItemTypeRepository(q Querier) *ItemTypeRepo {
	return &ItemTypeRepo{q: q}
}

// Create persiste una nueva categoría.
func (r *ItemTypeRepo) Create(itemType *entity.ItemType) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO item_types (id, name, description) VALUES ($1, $2, $3)`,
		itemType.ID, itemType.Name, itemType.Description,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item type: %w", err)
	}
	return nil
}

// GetByName obtiene una categoría por nombre, sin distinguir mayúsculas.
func (r *ItemTypeRepo) GetByName(name string) (*entity.ItemType, error) {
	var t entity.ItemType
	err := r.q.QueryRow(context.Background(),
		`SELECT id, name, description FROM item_types WHERE lower(name) = lower($1)`, name,
	).Scan(&t.ID, &t.Name, &t.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item type: %w", err)
	}
	return &t, nil
}

// List lista todas las categorías ordenadas por nombre.
func (r *ItemTypeRepo) List() ([]*entity.ItemType, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, name, description FROM item_types ORDER BY lower(name)`)
	if err != nil {
		return nil, fmt.Errorf("list item types: %w", err)
	}
	defer rows.Close()
	var list []*entity.ItemType
	for rows.Next() {
		var t entity.ItemType
		if err := rows.Scan(&t.ID, &t.Name, &t.Description); err != nil {
			return nil, fmt.Errorf("scan item type: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
