package repository

import "github.com/medtrack/inventory-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para el catálogo de productos.
// Las búsquedas por nombre no distinguen mayúsculas.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByName(name string) (*entity.Product, error)
	Update(product *entity.Product) error
	Delete(id string) error
	List(limit, offset int) ([]*entity.Product, error)
	// Search busca por subcadena de nombre (autocompletado de la UI).
	Search(query string, limit int) ([]*entity.Product, error)
}
