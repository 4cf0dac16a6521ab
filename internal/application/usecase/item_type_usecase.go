package usecase

import (
	"strings"

	"github.com/google/uuid"

	"github.com/medtrack/inventory-api/internal/application/dto"
	"github.com/medtrack/inventory-api/internal/domain"
	"github.com/medtrack/inventory-api/internal/domain/entity"
	"github.com/medtrack/inventory-api/internal/domain/repository"
)

// ItemTypeUseCase catálogo de categorías para los desplegables de la UI.
type ItemTypeUseCase struct {
	repo repository.ItemTypeRepository
}

// NewItemTypeUseCase construye el caso de uso.
func NewItemTypeUseCase(repo repository.ItemTypeRepository) *ItemTypeUseCase {
	return &ItemTypeUseCase{repo: repo}
}

// EnsureDefaults siembra las categorías por defecto que falten.
func (uc *ItemTypeUseCase) EnsureDefaults() error {
	for _, name := range entity.DefaultItemTypes() {
		existing, err := uc.repo.GetByName(name)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if err := uc.repo.Create(&entity.ItemType{ID: uuid.New().String(), Name: name}); err != nil {
			return err
		}
	}
	return nil
}

// Create crea una categoría con nombre único.
func (uc *ItemTypeUseCase) Create(in dto.CreateItemTypeRequest) (*dto.ItemTypeResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	itemType := &entity.ItemType{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
	}
	if err := uc.repo.Create(itemType); err != nil {
		return nil, err
	}
	return &dto.ItemTypeResponse{ID: itemType.ID, Name: itemType.Name, Description: itemType.Description}, nil
}

// List lista las categorías.
func (uc *ItemTypeUseCase) List() ([]dto.ItemTypeResponse, error) {
	list, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemTypeResponse, 0, len(list))
	for _, t := range list {
		items = append(items, dto.ItemTypeResponse{ID: t.ID, Name: t.Name, Description: t.Description})
	}
	return items, nil
}
