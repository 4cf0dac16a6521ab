package repository

import "github.com/medtrack/inventory-api/internal/domain/entity"

// LocationRepository define el puerto de persistencia para ubicaciones (bolsas/gabinetes).
type LocationRepository interface {
	Create(location *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	GetByName(name string) (*entity.Location, error)
	Update(location *entity.Location) error
	Delete(id string) error
	List() ([]*entity.Location, error)
}
