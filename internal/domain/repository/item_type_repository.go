package repository

import "github.com/medtrack/inventory-api/internal/domain/entity"

// ItemTypeRepository define el puerto para el catálogo de categorías.
type ItemTypeRepository interface {
	Create(itemType *entity.ItemType) error
	GetByName(name string) (*entity.ItemType, error)
	List() ([]*entity.ItemType, error)
}
